package sqlq

import (
	"fmt"

	"github.com/dshills/ftsearch/pkg/types"
)

// Provider is the generic query layer: it applies ordinary filters,
// ordering and pagination taken from forms
type Provider struct {
	dialect Dialect
	paging  types.PagingOptions
	alias   string
}

// Option configures a Provider
type Option func(*Provider)

// WithPaging sets the pagination mode and sizes
func WithPaging(opts types.PagingOptions) Option {
	return func(p *Provider) { p.paging = opts }
}

// WithAlias sets the alias outer clauses are written against
func WithAlias(alias string) Option {
	return func(p *Provider) { p.alias = alias }
}

// NewProvider creates a provider rendering in dialect
func NewProvider(dialect Dialect, opts ...Option) *Provider {
	p := &Provider{
		dialect: dialect,
		paging:  types.DefaultPagingOptions(),
		alias:   DefaultAlias,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// From starts a query over table
func (p *Provider) From(table string) *Query {
	return &Query{dialect: p.dialect, alias: p.alias, table: table}
}

// Paging returns the pagination options
func (p *Provider) Paging() types.PagingOptions {
	return p.paging
}

// Dialect returns the rendering dialect
func (p *Provider) Dialect() Dialect {
	return p.dialect
}

func (p *Provider) own(q types.Query) (*Query, error) {
	query, ok := q.(*Query)
	if !ok || query == nil {
		return nil, fmt.Errorf("%w: %T", types.ErrForeignQuery, q)
	}
	return query, nil
}

// ApplyWhere applies the form's ordinary filters. Forms without filters
// leave the query unchanged.
func (p *Provider) ApplyWhere(q types.Query, form any) (types.Query, error) {
	query, err := p.own(q)
	if err != nil {
		return nil, err
	}

	f, ok := form.(Filterer)
	if !ok {
		return query, nil
	}
	conds := f.Conditions()
	if len(conds) == 0 {
		return query, nil
	}
	return query.Where(conds...), nil
}

// ApplyPagination applies the form's ordering and page window
func (p *Provider) ApplyPagination(q types.Query, form any) (*types.PaginationResult, error) {
	query, err := p.own(q)
	if err != nil {
		return nil, err
	}

	if s, ok := form.(Sorter); ok {
		query = query.OrderBy(s.Ordering()...)
	}

	pf, ok := form.(types.PageForm)
	if !ok {
		return p.NewPaginationResult(query, types.Window{}, false), nil
	}

	w := p.paging.Window(pf.PageSpec())
	return p.NewPaginationResult(query.Paged(w), w, true), nil
}

// NewPaginationResult wraps q with the metadata of w
func (p *Provider) NewPaginationResult(q types.Query, w types.Window, applied bool) *types.PaginationResult {
	return &types.PaginationResult{
		Query:     q,
		Page:      w.Page,
		PageSize:  w.PageSize,
		IsApplied: applied,
	}
}
