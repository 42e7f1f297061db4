package sqlq

import (
	"fmt"
	"strings"

	"github.com/dshills/ftsearch/pkg/types"
)

// DefaultAlias names the outermost query level when none is configured
const DefaultAlias = "t0"

type paging struct {
	offset int
	fetch  int
}

// Query is an immutable SELECT over a table or a raw SQL source, with
// ordinary filters, ordering and paging applied at one outer level.
type Query struct {
	dialect Dialect
	alias   string

	table   string
	raw     string
	rawArgs []any

	conds  []Condition
	orders []Order
	page   *paging
}

var (
	_ types.Query      = (*Query)(nil)
	_ types.Fragmenter = (*Query)(nil)
)

func (q *Query) clone() *Query {
	c := *q
	c.rawArgs = append([]any(nil), q.rawArgs...)
	c.conds = append([]Condition(nil), q.conds...)
	c.orders = append([]Order(nil), q.orders...)
	if q.page != nil {
		p := *q.page
		c.page = &p
	}
	return &c
}

// Alias returns the alias outer clauses are rendered against
func (q *Query) Alias() string { return q.alias }

// Dialect returns the rendering dialect
func (q *Query) Dialect() Dialect { return q.dialect }

// IsRaw reports whether the query wraps raw SQL
func (q *Query) IsRaw() bool { return q.raw != "" }

// WithRawSQL returns a query over raw SQL, dropping every clause of q
func (q *Query) WithRawSQL(sql string, args ...any) types.Query {
	return q.Raw(sql, args...)
}

// Raw is WithRawSQL with a concrete result type
func (q *Query) Raw(sql string, args ...any) *Query {
	return &Query{
		dialect: q.dialect,
		alias:   q.alias,
		raw:     sql,
		rawArgs: append([]any(nil), args...),
	}
}

// Where returns a copy with conds appended
func (q *Query) Where(conds ...Condition) *Query {
	c := q.clone()
	c.conds = append(c.conds, conds...)
	return c
}

// OrderBy returns a copy with orders appended
func (q *Query) OrderBy(orders ...Order) *Query {
	c := q.clone()
	c.orders = append(c.orders, orders...)
	return c
}

// Paged returns a copy limited to w. Engines that need an ordering for
// OFFSET get an unspecified one when none is set.
func (q *Query) Paged(w types.Window) *Query {
	c := q.clone()
	c.page = &paging{offset: w.Offset, fetch: w.Fetch}
	if c.dialect.offsetFetch && len(c.orders) == 0 {
		c.orders = []Order{{}}
	}
	return c
}

// hasClauses reports whether anything is applied on top of the source
func (q *Query) hasClauses() bool {
	return len(q.conds) > 0 || len(q.orders) > 0 || q.page != nil
}

func (q *Query) sourceClause() string {
	return QuoteIdent(q.table) + " AS " + QuoteIdent(q.alias)
}

// tailClause renders ORDER BY and paging as one line
func (q *Query) tailClause(alias string) string {
	var parts []string
	if len(q.orders) > 0 {
		parts = append(parts, "ORDER BY "+orderClause(alias, q.orders))
	}
	if q.page != nil {
		parts = append(parts, q.dialect.paging(q.page))
	}
	return strings.Join(parts, " ")
}

// SQL renders the query over several lines with every parameter inlined.
// A raw source is always rendered as a derived table:
//
//	SELECT [t0].*
//	FROM (
//	    <raw sql>
//	) AS [t0]
//	WHERE ...
//	ORDER BY ...
//	OFFSET n ROWS FETCH NEXT m ROWS ONLY
func (q *Query) SQL() (string, error) {
	lines := []string{"SELECT " + QuoteIdent(q.alias) + ".*"}

	if q.IsRaw() {
		inner, err := q.dialect.InlineMarkers(q.raw, q.rawArgs)
		if err != nil {
			return "", fmt.Errorf("failed to render raw source: %w", err)
		}
		lines = append(lines, "FROM (")
		for _, l := range strings.Split(inner, "\n") {
			lines = append(lines, "    "+l)
		}
		lines = append(lines, ") AS "+QuoteIdent(q.alias))
	} else {
		lines = append(lines, "FROM "+q.sourceClause())
	}

	where, args, err := whereClause(q.alias, q.conds)
	if err != nil {
		return "", err
	}
	if where != "" {
		inlined, err := q.dialect.InlinePlaceholders(where, args)
		if err != nil {
			return "", fmt.Errorf("failed to render where clause: %w", err)
		}
		lines = append(lines, "WHERE "+inlined)
	}

	if len(q.orders) > 0 {
		lines = append(lines, "ORDER BY "+orderClause(q.alias, q.orders))
	}
	if q.page != nil {
		lines = append(lines, q.dialect.paging(q.page))
	}

	return strings.Join(lines, "\n"), nil
}

// Statement renders the executable form with dialect placeholders. A raw
// query without clauses is executed as written.
func (q *Query) Statement() (string, []any, error) {
	sql, args, err := q.positional()
	if err != nil {
		return "", nil, err
	}
	sql, err = q.dialect.bind(sql)
	if err != nil {
		return "", nil, fmt.Errorf("failed to apply placeholders: %w", err)
	}
	return sql, args, nil
}

// CountStatement renders SELECT COUNT(*) over the query without its
// ordering and paging
func (q *Query) CountStatement() (string, []any, error) {
	c := q.clone()
	c.orders = nil
	c.page = nil

	inner, args, err := c.positional()
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT COUNT(*) FROM (" + inner + ") AS [cnt]"
	sql, err = q.dialect.bind(sql)
	if err != nil {
		return "", nil, fmt.Errorf("failed to apply placeholders: %w", err)
	}
	return sql, args, nil
}

// positional renders a single line with '?' placeholders
func (q *Query) positional() (string, []any, error) {
	var (
		b    strings.Builder
		args []any
	)

	if q.IsRaw() {
		inner, innerArgs, err := ExpandMarkers(q.raw, q.rawArgs)
		if err != nil {
			return "", nil, err
		}
		if !q.hasClauses() {
			return inner, innerArgs, nil
		}
		b.WriteString("SELECT " + QuoteIdent(q.alias) + ".* FROM (" + inner + ") AS " + QuoteIdent(q.alias))
		args = append(args, innerArgs...)
	} else {
		b.WriteString("SELECT " + QuoteIdent(q.alias) + ".* FROM " + q.sourceClause())
	}

	where, whereArgs, err := whereClause(q.alias, q.conds)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		b.WriteString(" WHERE " + where)
		args = append(args, whereArgs...)
	}
	if tail := q.tailClause(q.alias); tail != "" {
		b.WriteString(" " + tail)
	}
	return b.String(), args, nil
}

// Fragments exposes the query's clauses rendered against alias
func (q *Query) Fragments(alias string) ([]types.Fragment, error) {
	frags := []types.Fragment{{Kind: types.FragmentSelect, SQL: "SELECT " + QuoteIdent(alias) + ".*"}}

	if q.IsRaw() {
		frags = append(frags, types.Fragment{
			Kind:    types.FragmentFrom,
			SQL:     q.raw,
			Args:    append([]any(nil), q.rawArgs...),
			Derived: true,
		})
	} else {
		frags = append(frags, types.Fragment{
			Kind: types.FragmentFrom,
			SQL:  QuoteIdent(q.table) + " AS " + QuoteIdent(alias),
		})
	}

	where, args, err := whereClause(alias, q.conds)
	if err != nil {
		return nil, err
	}
	if where != "" {
		frags = append(frags, types.Fragment{Kind: types.FragmentWhere, SQL: where, Args: args})
	}
	if tail := q.tailClause(alias); tail != "" {
		frags = append(frags, types.Fragment{Kind: types.FragmentOrder, SQL: tail})
	}
	return frags, nil
}
