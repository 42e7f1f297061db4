package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/ftsearch/internal/fulltext"
	"github.com/dshills/ftsearch/internal/predicate"
	"github.com/dshills/ftsearch/internal/sqlq"
	"github.com/dshills/ftsearch/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeNoDatabase      = -32001 // run_search called without a configured database
	ErrorCodeRewriteFailed   = -32002 // Generated SQL did not have the expected shape
	ErrorCodeUnknownMode     = -32003 // Search mode is unset or unknown
	ErrorCodeExecutionFailed = -32004 // Query failed on the database
)

// handleBuildPredicate handles the build_predicate tool invocation
func (s *Server) handleBuildPredicate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	term := getStringDefault(args, "term", "")
	mode := s.cfg.SearchMode()
	if raw, ok := args["mode"].(string); ok && raw != "" {
		parsed, err := types.ParseSearchMode(raw)
		if err != nil {
			return nil, modeError(raw)
		}
		mode = parsed
	}

	builder, err := predicate.New(mode)
	if err != nil {
		return nil, modeError(string(mode))
	}

	pred, has := builder.Build(term)
	response := map[string]interface{}{
		"mode":           string(mode),
		"table_function": builder.TableFunction(),
		"has_predicate":  has,
		"predicate":      pred,
	}
	if has && mode != types.SearchModeFreeText {
		response["tokens"] = predicate.Tokens(pred)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRenderSearchQuery handles the render_search_query tool invocation
func (s *Server) handleRenderSearchQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := parseSearchRequest(request)
	if err != nil {
		return nil, err
	}

	p, page, err := s.render(req)
	if err != nil {
		return nil, err
	}

	q, ok := page.Query.(*sqlq.Query)
	if !ok {
		return nil, newMCPError(ErrorCodeInternalError, "unexpected query type", nil)
	}
	stmt, stmtArgs, err := q.Statement()
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to render statement", map[string]interface{}{
			"error": err.Error(),
		})
	}
	text, err := q.SQL()
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to render query", map[string]interface{}{
			"error": err.Error(),
		})
	}

	pred, has := p.Predicate(req.term)
	response := map[string]interface{}{
		"statement":     stmt,
		"args":          stmtArgs,
		"sql":           text,
		"has_predicate": has,
		"predicate":     pred,
		"page":          page.Page,
		"page_size":     page.PageSize,
		"is_applied":    page.IsApplied,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRunSearch handles the run_search tool invocation
func (s *Server) handleRunSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.runner == nil {
		return nil, newMCPError(ErrorCodeNoDatabase, "no database configured", map[string]interface{}{
			"setting": "db.dsn",
		})
	}

	req, err := parseSearchRequest(request)
	if err != nil {
		return nil, err
	}

	_, page, err := s.render(req)
	if err != nil {
		return nil, err
	}

	res, err := s.runner.Run(ctx, page.Query)
	if err != nil {
		return nil, newMCPError(ErrorCodeExecutionFailed, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"columns":    res.Columns,
		"rows":       res.Rows,
		"total":      res.Total,
		"page":       page.Page,
		"page_size":  page.PageSize,
		"is_applied": page.IsApplied,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// render runs the request through ApplyWhere and ApplyPagination
func (s *Server) render(req *searchRequest) (*fulltext.Provider, *types.PaginationResult, error) {
	p, err := s.provider(req.cfg)
	if err != nil {
		return nil, nil, toolError(err)
	}

	q, err := p.ApplyWhere(s.def.From(req.cfg.Table), req)
	if err != nil {
		return nil, nil, toolError(err)
	}
	page, err := p.ApplyPagination(q, req)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return p, page, nil
}

// toolError maps library errors onto MCP error codes
func toolError(err error) error {
	var rewriteErr *types.RewriteError
	switch {
	case errors.Is(err, types.ErrUnknownSearchMode):
		return newMCPError(ErrorCodeUnknownMode, "unknown search mode", map[string]interface{}{
			"error":   err.Error(),
			"allowed": types.SearchModes,
		})
	case errors.As(err, &rewriteErr):
		return newMCPError(ErrorCodeRewriteFailed, "query rewrite failed", map[string]interface{}{
			"stage":  rewriteErr.Stage,
			"detail": rewriteErr.Detail,
		})
	case errors.Is(err, types.ErrDuplicateJoin), errors.Is(err, types.ErrCapability):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	}
	return newMCPError(ErrorCodeInvalidParams, "invalid search request", map[string]interface{}{
		"error": err.Error(),
	})
}

func modeError(mode string) error {
	return newMCPError(ErrorCodeUnknownMode, "unknown search mode", map[string]interface{}{
		"param":   "mode",
		"value":   mode,
		"allowed": types.SearchModes,
	})
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getInt extracts an optional integer parameter
func getInt(args map[string]interface{}, key string) (*int, bool) {
	switch val := args[key].(type) {
	case float64:
		n := int(val)
		return &n, true
	case int:
		return &val, true
	case nil:
		return nil, true
	}
	return nil, false
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
