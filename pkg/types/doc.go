// Package types provides shared contracts for the full-text query layers.
//
// This package defines the values passed between the generic query layer
// (internal/sqlq), the full-text augmentation engine (internal/fulltext) and
// the execution layer (internal/storage).
//
// # Search Modes
//
// SearchMode selects both the predicate syntax and the table function:
//
//	types.SearchModeFreeText                    // FREETEXTTABLE, term passed through
//	types.SearchModeWeightedPrefixes            // CONTAINSTABLE, ISABOUT("word*" WEIGHT (w), ...)
//	types.SearchModeWeightedPrefixesPlusReverse // CONTAINSTABLE, words and their reversals
//
// The zero value is unset; asking for a table function in that state fails
// with ErrUnknownSearchMode.
//
// # Forms
//
// Callers hand forms to providers as plain values. Full-text providers
// require the combined SearchForm capability:
//
//	type listForm struct {
//	    Term string
//	    Page types.PageSpec
//	}
//
//	func (f listForm) SearchTerm() string      { return f.Term }
//	func (f listForm) PageSpec() types.PageSpec { return f.Page }
//
// # Pagination Windows
//
// PagingOptions turns a PageSpec into an offset and fetch size:
//
//	opts := types.PagingOptions{Mode: types.PaginationSkipAndTake, MaxPageSize: 100}
//	w := opts.Window(types.PageSpec{Skip: types.Ptr(20), Take: types.Ptr(10)})
//	// w.Offset == 20, w.Fetch == 10
//
// # Queries
//
// Query is the opaque capability every layer works through: raw-SQL
// substitution plus rendering for inspection. Queries that also implement
// Fragmenter expose their clauses as typed fragments, which lets the
// full-text layer recombine them without parsing text.
package types
