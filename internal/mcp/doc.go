// Package mcp implements the Model Context Protocol (MCP) server for ftsearch.
//
// The server exposes three tools:
//   - build_predicate: show the full-text predicate a term produces
//   - render_search_query: render the SQL for a search request
//   - run_search: execute a search request and return one page of rows
//
// The server communicates with MCP clients via standard input/output.
// Logs go to stderr.
//
// # Tool: render_search_query
//
//	Request:
//	{
//	  "name": "render_search_query",
//	  "arguments": {
//	    "table": "Docs",
//	    "key_column": "Id",
//	    "term": "blue whale",
//	    "filters": [{"column": "Status", "op": "=", "value": "open"}],
//	    "page": 0,
//	    "sort_by_rank": true
//	  }
//	}
//
//	Response:
//	{
//	  "statement": "SELECT [ftst].* FROM [Docs] AS [ftst] INNER JOIN CONTAINSTABLE(...) ...",
//	  "args": ["ISABOUT(\"blue*\" WEIGHT (0.8), \"whale*\" WEIGHT (1))", "open"],
//	  "page": 0,
//	  "page_size": 20,
//	  "is_applied": false
//	}
//
// # Tool: run_search
//
// Takes the same arguments. It needs db.dsn to be configured and only
// executes on SQLite, where blank terms run the plain filtered query.
//
// # Error Handling
//
// Errors are returned as MCPError values with JSON-RPC codes:
//   - -32602: Invalid parameters
//   - -32603: Internal error
//   - -32001: No database configured
//   - -32002: Query rewrite failed
//   - -32003: Unknown search mode
//   - -32004: Query execution failed
//
// Full-text providers are cached per table setup in an LRU cache.
package mcp
