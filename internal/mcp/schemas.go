package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/ftsearch/pkg/types"
)

func modeNames() []string {
	names := make([]string, len(types.SearchModes))
	for i, m := range types.SearchModes {
		names[i] = string(m)
	}
	return names
}

// buildPredicateTool returns the tool definition for build_predicate
func buildPredicateTool() mcp.Tool {
	return mcp.Tool{
		Name:        "build_predicate",
		Description: "Build the full-text predicate a search term produces",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"term": map[string]interface{}{
					"type":        "string",
					"description": "Raw search term as typed by a user",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Search mode; defaults to the configured one",
					"enum":        modeNames(),
				},
			},
			Required: []string{"term"},
		},
	}
}

// searchProperties are shared by render_search_query and run_search
func searchProperties() map[string]interface{} {
	sortItems := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"column": map[string]interface{}{"type": "string"},
			"desc":   map[string]interface{}{"type": "boolean", "default": false},
		},
		"required": []string{"column"},
	}

	return map[string]interface{}{
		"table": map[string]interface{}{
			"type":        "string",
			"description": "Searched table, optionally schema qualified (dbo.Docs)",
		},
		"key_column": map[string]interface{}{
			"type":        "string",
			"description": "Unique key column joined to the table function KEY",
		},
		"term": map[string]interface{}{
			"type":        "string",
			"description": "Raw search term; blank terms run the plain query",
		},
		"mode": map[string]interface{}{
			"type":        "string",
			"description": "Search mode; defaults to the configured one",
			"enum":        modeNames(),
		},
		"search_columns": map[string]interface{}{
			"type":        "array",
			"description": "Indexed columns to search; all when omitted",
			"items":       map[string]interface{}{"type": "string"},
		},
		"unique_sort": map[string]interface{}{
			"type":        "array",
			"description": "Tie-breaking order for rank sorting; the key column when omitted",
			"items":       sortItems,
		},
		"filters": map[string]interface{}{
			"type":        "array",
			"description": "Ordinary filters combined with AND",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"column": map[string]interface{}{"type": "string"},
					"op": map[string]interface{}{
						"type":    "string",
						"enum":    []string{"=", "<>", "<", "<=", ">", ">=", "LIKE", "NOT LIKE", "IN"},
						"default": "=",
					},
					"value": map[string]interface{}{},
				},
				"required": []string{"column", "value"},
			},
		},
		"sort": map[string]interface{}{
			"type":        "array",
			"description": "Ordering used when not sorting by rank",
			"items":       sortItems,
		},
		"page": map[string]interface{}{
			"type":        "integer",
			"description": "Zero-based page number (page based paging)",
			"minimum":     0,
		},
		"skip": map[string]interface{}{
			"type":        "integer",
			"description": "Rows to skip",
			"minimum":     0,
		},
		"take": map[string]interface{}{
			"type":        "integer",
			"description": "Rows to return, capped by the configured maximum",
			"minimum":     1,
		},
		"sort_by_rank": map[string]interface{}{
			"type":        "boolean",
			"description": "Order by relevance instead of the sort list",
			"default":     false,
		},
	}
}

// renderSearchQueryTool returns the tool definition for render_search_query
func renderSearchQueryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "render_search_query",
		Description: "Render the SQL a full-text search request produces, without running it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: searchProperties(),
			Required:   []string{"table", "key_column"},
		},
	}
}

// runSearchTool returns the tool definition for run_search
func runSearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "run_search",
		Description: "Run a search request against the configured database and return one page of rows",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: searchProperties(),
			Required:   []string{"table", "key_column"},
		},
	}
}
