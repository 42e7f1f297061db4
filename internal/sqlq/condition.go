package sqlq

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Op is a comparison operator for a Condition
type Op string

const (
	OpEq      Op = "="
	OpNotEq   Op = "<>"
	OpLt      Op = "<"
	OpLtOrEq  Op = "<="
	OpGt      Op = ">"
	OpGtOrEq  Op = ">="
	OpLike    Op = "LIKE"
	OpNotLike Op = "NOT LIKE"
	OpIn      Op = "IN"
)

// ParseOp parses an operator, accepting symbolic and word forms
func ParseOp(s string) (Op, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "=", "==", "EQ":
		return OpEq, nil
	case "<>", "!=", "NE":
		return OpNotEq, nil
	case "<", "LT":
		return OpLt, nil
	case "<=", "LE", "LTE":
		return OpLtOrEq, nil
	case ">", "GT":
		return OpGt, nil
	case ">=", "GE", "GTE":
		return OpGtOrEq, nil
	case "LIKE":
		return OpLike, nil
	case "NOT LIKE":
		return OpNotLike, nil
	case "IN":
		return OpIn, nil
	}
	return "", fmt.Errorf("unsupported operator: %q", s)
}

// Condition is an ordinary filter on one column. Column is unqualified; it
// is bound to the query alias at render time.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

// Order sorts by one column. An empty Column renders the engine's
// "no particular order" expression.
type Order struct {
	Column string
	Desc   bool
}

// Filterer is implemented by forms carrying ordinary filters
type Filterer interface {
	Conditions() []Condition
}

// Sorter is implemented by forms carrying an ordering
type Sorter interface {
	Ordering() []Order
}

func (c Condition) sqlizer(alias string) (sq.Sqlizer, error) {
	col := Column(alias, c.Column)
	switch c.Op {
	case OpEq, "":
		return sq.Eq{col: c.Value}, nil
	case OpIn:
		return sq.Eq{col: c.Value}, nil
	case OpNotEq:
		return sq.NotEq{col: c.Value}, nil
	case OpLt:
		return sq.Lt{col: c.Value}, nil
	case OpLtOrEq:
		return sq.LtOrEq{col: c.Value}, nil
	case OpGt:
		return sq.Gt{col: c.Value}, nil
	case OpGtOrEq:
		return sq.GtOrEq{col: c.Value}, nil
	case OpLike:
		return sq.Like{col: c.Value}, nil
	case OpNotLike:
		return sq.NotLike{col: c.Value}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q on column %s", c.Op, c.Column)
}

// whereClause renders conditions against alias, joined with AND
func whereClause(alias string, conds []Condition) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		s, err := c.sqlizer(alias)
		if err != nil {
			return "", nil, err
		}
		sql, a, err := s.ToSql()
		if err != nil {
			return "", nil, fmt.Errorf("failed to render condition on %s: %w", c.Column, err)
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}
	return strings.Join(parts, " AND "), args, nil
}

// orderClause renders the ORDER BY list against alias
func orderClause(alias string, orders []Order) string {
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		expr := "(SELECT NULL)"
		if o.Column != "" {
			expr = Column(alias, o.Column)
			if o.Desc {
				expr += " DESC"
			} else {
				expr += " ASC"
			}
		}
		parts = append(parts, expr)
	}
	return strings.Join(parts, ", ")
}
