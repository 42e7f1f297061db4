// Package fulltext grafts full-text search onto a generic query provider.
//
// A Provider wraps a DefaultProvider. When the form's search term yields a
// predicate, ApplyWhere replaces the query source with a join of the
// searched table to its table function:
//
//	SELECT [ftst].* FROM [Docs] AS [ftst]
//	INNER JOIN CONTAINSTABLE([Docs], *, {0}) AS [KEY_TBL]
//	ON [ftst].[Id] = [KEY_TBL].[KEY]
//
// The default provider's filters are then spliced onto that join. Blank
// terms are delegated untouched.
//
// ApplyPagination either grafts the default ordering and paging onto the
// full-text query or, when the form asks for it, orders by relevance with
// the configured unique sort breaking ties.
//
// Queries that expose types.Fragmenter are recombined from their clauses.
// Anything else is spliced from its rendered SQL, which requires the
// derived-table layout sqlq produces and rebinding the predicate literal
// the renderer inlined.
package fulltext
