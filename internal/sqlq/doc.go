// Package sqlq implements the generic query layer that full-text search is
// grafted onto.
//
// A Query selects from a table or from raw SQL and carries one outer level
// of ordinary filters, ordering and paging. Conditions are rendered with
// github.com/Masterminds/squirrel and bound to the query alias only at
// render time, so the same query can be rendered against any alias.
//
// # Rendering
//
// Every query has three renderings:
//
//   - SQL: multi-line inspection text with parameters inlined as literals
//   - Statement: one executable line with dialect placeholders and arguments
//   - Fragments: typed clauses (select, from, where, order) for structural reuse
//
// Raw SQL uses positional markers {0}, {1}, ... that refer to its arguments:
//
//	p := sqlq.NewProvider(sqlq.SQLServer)
//	q := p.From("Docs").Raw("SELECT * FROM [Docs] WHERE [Owner] = {0}", "ana")
//
//	text, _ := q.SQL()
//	// SELECT [t0].*
//	// FROM (
//	//     SELECT * FROM [Docs] WHERE [Owner] = N'ana'
//	// ) AS [t0]
//
// # Provider
//
// Provider applies forms. Filters come from forms implementing Filterer,
// ordering from Sorter, the page window from types.PageForm:
//
//	q, _ := p.ApplyWhere(p.From("Docs"), form)
//	res, _ := p.ApplyPagination(q, form)
//	sql, args, _ := res.Query.(*sqlq.Query).Statement()
//
// # Dialects
//
// SQLServer renders N'' literals, OFFSET/FETCH paging and @pN placeholders.
// SQLite renders plain literals, LIMIT/OFFSET paging and ? placeholders, and
// accepts the same bracketed identifiers.
package sqlq
