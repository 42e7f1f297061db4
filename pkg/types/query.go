package types

// Query is an opaque relational query. The full-text layer only substitutes
// raw SQL and inspects the rendered text.
type Query interface {
	// WithRawSQL returns a new query wrapping sql. Positional markers {0},
	// {1}, ... refer to args.
	WithRawSQL(sql string, args ...any) Query
	// SQL renders the query for inspection, parameters inlined as literals
	SQL() (string, error)
}

// FragmentKind tags a Fragment
type FragmentKind int

const (
	FragmentSelect FragmentKind = iota
	FragmentFrom
	FragmentWhere
	FragmentOrder
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentSelect:
		return "select"
	case FragmentFrom:
		return "from"
	case FragmentWhere:
		return "where"
	case FragmentOrder:
		return "order"
	}
	return "unknown"
}

// Fragment is one clause of a query.
//
// Where and Order fragments use '?' placeholders bound to Args in order. A
// From fragment with Derived set carries the inner query text with {n}
// markers bound to Args.
type Fragment struct {
	Kind    FragmentKind
	SQL     string
	Args    []any
	Derived bool
}

// Fragmenter is implemented by queries that expose their clauses
// structurally. Clauses are rendered against alias.
type Fragmenter interface {
	Fragments(alias string) ([]Fragment, error)
}

// PaginationResult wraps a paginated query with its page metadata
type PaginationResult struct {
	Query     Query
	Page      int
	PageSize  int
	IsApplied bool
}
