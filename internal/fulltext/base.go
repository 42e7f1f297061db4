package fulltext

import (
	"fmt"
	"regexp"
	"strings"
)

// Aliases are the identifiers the pipeline uses to recognize and relocate
// the SQL it generates. Table aliases the searched table, Key aliases the
// table function's (KEY, RANK) result.
type Aliases struct {
	Table string
	Key   string
}

// DefaultAliases returns the reserved aliases ftst and KEY_TBL
func DefaultAliases() Aliases {
	return Aliases{Table: "ftst", Key: "KEY_TBL"}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (a Aliases) validate() error {
	if !identPattern.MatchString(a.Table) {
		return fmt.Errorf("invalid table alias %q", a.Table)
	}
	if !identPattern.MatchString(a.Key) {
		return fmt.Errorf("invalid key alias %q", a.Key)
	}
	if strings.EqualFold(a.Table, a.Key) {
		return fmt.Errorf("table and key aliases must differ, both are %q", a.Table)
	}
	return nil
}

func (a Aliases) table() string { return quoteIdent(a.Table) }

func (a Aliases) key() string { return quoteIdent(a.Key) }

// SortColumn is one column of the unique tie-breaking order
type SortColumn struct {
	Column string
	Desc   bool
}

// quoteIdent brackets name unless it already is
func quoteIdent(name string) string {
	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		return name
	}
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// quoteTable brackets every part of a possibly schema-qualified name
func quoteTable(name string) string {
	if strings.HasPrefix(name, "[") {
		return name
	}
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = quoteIdent(part)
	}
	return strings.Join(parts, ".")
}

// buildBaseQuery joins the table to its full-text table function. The
// predicate is left as the {0} marker so it is always bound as a parameter.
func buildBaseQuery(cfg Config, tableFunction string, a Aliases) string {
	table := quoteTable(cfg.Table)

	columns := "*"
	if len(cfg.SearchColumns) > 0 {
		quoted := make([]string, len(cfg.SearchColumns))
		for i, c := range cfg.SearchColumns {
			quoted[i] = quoteIdent(c)
		}
		columns = "(" + strings.Join(quoted, ", ") + ")"
	}

	return fmt.Sprintf(
		"SELECT %[1]s.* FROM %[2]s AS %[1]s INNER JOIN %[3]s(%[2]s, %[4]s, {0}) AS %[5]s ON %[1]s.%[6]s = %[5]s.[KEY]",
		a.table(), table, tableFunction, columns, a.key(), quoteIdent(cfg.KeyColumn),
	)
}
