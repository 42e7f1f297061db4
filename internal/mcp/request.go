package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/ftsearch/internal/fulltext"
	"github.com/dshills/ftsearch/internal/sqlq"
	"github.com/dshills/ftsearch/pkg/types"
)

// searchRequest is the form built from tool arguments
type searchRequest struct {
	cfg    fulltext.Config
	term   string
	conds  []sqlq.Condition
	orders []sqlq.Order
	page   types.PageSpec
}

func (r *searchRequest) SearchTerm() string { return r.term }

func (r *searchRequest) PageSpec() types.PageSpec { return r.page }

func (r *searchRequest) Conditions() []sqlq.Condition { return r.conds }

func (r *searchRequest) Ordering() []sqlq.Order { return r.orders }

func invalidParam(param, reason string) error {
	return newMCPError(ErrorCodeInvalidParams, "invalid "+param, map[string]interface{}{
		"param":  param,
		"reason": reason,
	})
}

// parseSearchRequest validates the arguments shared by render_search_query
// and run_search
func parseSearchRequest(request mcp.CallToolRequest) (*searchRequest, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req := &searchRequest{term: getStringDefault(args, "term", "")}

	req.cfg.Table = getStringDefault(args, "table", "")
	if req.cfg.Table == "" {
		return nil, invalidParam("table", "missing or empty")
	}
	req.cfg.KeyColumn = getStringDefault(args, "key_column", "")
	if req.cfg.KeyColumn == "" {
		return nil, invalidParam("key_column", "missing or empty")
	}

	if raw := getStringDefault(args, "mode", ""); raw != "" {
		mode, err := types.ParseSearchMode(raw)
		if err != nil {
			return nil, modeError(raw)
		}
		req.cfg.Mode = mode
	}

	cols, err := getStrings(args, "search_columns")
	if err != nil {
		return nil, err
	}
	req.cfg.SearchColumns = cols

	unique, err := getOrders(args, "unique_sort")
	if err != nil {
		return nil, err
	}
	for _, o := range unique {
		req.cfg.UniqueSort = append(req.cfg.UniqueSort, fulltext.SortColumn{Column: o.Column, Desc: o.Desc})
	}

	if req.orders, err = getOrders(args, "sort"); err != nil {
		return nil, err
	}
	if req.conds, err = getConditions(args, "filters"); err != nil {
		return nil, err
	}

	for key, dst := range map[string]**int{"page": &req.page.Page, "skip": &req.page.Skip, "take": &req.page.Take} {
		v, ok := getInt(args, key)
		if !ok {
			return nil, invalidParam(key, "must be an integer")
		}
		*dst = v
	}
	req.page.SortByTermRank = getBoolDefault(args, "sort_by_rank", false)

	return req, nil
}

func getStrings(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, invalidParam(key, "must be an array of strings")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || s == "" {
			return nil, invalidParam(key, "must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

func getObjects(args map[string]interface{}, key string) ([]map[string]interface{}, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, invalidParam(key, "must be an array of objects")
	}

	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, invalidParam(key, "must be an array of objects")
		}
		out = append(out, obj)
	}
	return out, nil
}

func getOrders(args map[string]interface{}, key string) ([]sqlq.Order, error) {
	objs, err := getObjects(args, key)
	if err != nil {
		return nil, err
	}

	orders := make([]sqlq.Order, 0, len(objs))
	for _, obj := range objs {
		col := getStringDefault(obj, "column", "")
		if col == "" {
			return nil, invalidParam(key, "column is required")
		}
		orders = append(orders, sqlq.Order{Column: col, Desc: getBoolDefault(obj, "desc", false)})
	}
	return orders, nil
}

func getConditions(args map[string]interface{}, key string) ([]sqlq.Condition, error) {
	objs, err := getObjects(args, key)
	if err != nil {
		return nil, err
	}

	conds := make([]sqlq.Condition, 0, len(objs))
	for _, obj := range objs {
		col := getStringDefault(obj, "column", "")
		if col == "" {
			return nil, invalidParam(key, "column is required")
		}
		op, err := sqlq.ParseOp(getStringDefault(obj, "op", string(sqlq.OpEq)))
		if err != nil {
			return nil, invalidParam(key, err.Error())
		}
		value, ok := obj["value"]
		if !ok {
			return nil, invalidParam(key, "value is required")
		}
		if n, isFloat := value.(float64); isFloat && n == float64(int64(n)) {
			value = int64(n)
		}
		conds = append(conds, sqlq.Condition{Column: col, Op: op, Value: value})
	}
	return conds, nil
}
