package fulltext

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/ftsearch/internal/predicate"
	"github.com/dshills/ftsearch/pkg/types"
)

// DefaultProvider is the generic query layer ordinary filtering, sorting
// and pagination are delegated to
type DefaultProvider interface {
	ApplyWhere(q types.Query, form any) (types.Query, error)
	ApplyPagination(q types.Query, form any) (*types.PaginationResult, error)
	NewPaginationResult(q types.Query, w types.Window, applied bool) *types.PaginationResult
	Paging() types.PagingOptions
}

// Config describes the searched entity
type Config struct {
	Table     string
	KeyColumn string
	// UniqueSort breaks rank ties; defaults to the key column ascending
	UniqueSort []SortColumn
	// SearchColumns limits the indexed columns searched; empty means all
	SearchColumns []string
	Mode          types.SearchMode
}

// Provider augments a default provider with full-text search. It holds
// configuration only and is safe for concurrent use.
type Provider struct {
	cfg          Config
	def          DefaultProvider
	builder      predicate.Builder
	aliases      Aliases
	base         string
	lineSplicing bool
	log          *slog.Logger
}

// Option configures a Provider
type Option func(*Provider)

// WithLogger sets the logger; the default discards
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithAliases overrides the reserved table and key aliases
func WithAliases(a Aliases) Option {
	return func(p *Provider) { p.aliases = a }
}

// WithLineSplicing forces splicing on rendered SQL text even for queries
// that expose fragments
func WithLineSplicing() Option {
	return func(p *Provider) { p.lineSplicing = true }
}

// New creates a Provider. The search mode selects the predicate builder
// once; an unset or unknown mode is a configuration error.
func New(cfg Config, def DefaultProvider, opts ...Option) (*Provider, error) {
	if def == nil {
		return nil, errors.New("default provider is required")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, errors.New("table name is required")
	}
	if strings.TrimSpace(cfg.KeyColumn) == "" {
		return nil, errors.New("key column is required")
	}

	builder, err := predicate.New(cfg.Mode)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		cfg:     cfg,
		def:     def,
		builder: builder,
		aliases: DefaultAliases(),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.aliases.validate(); err != nil {
		return nil, err
	}
	p.base = buildBaseQuery(cfg, builder.TableFunction(), p.aliases)

	return p, nil
}

// Predicate builds the full-text predicate for term
func (p *Provider) Predicate(term string) (string, bool) {
	return p.builder.Build(term)
}

// BaseQuery returns the full-text join with its {0} predicate marker
func (p *Provider) BaseQuery() string {
	return p.base
}

// TableFunction names the table function in use
func (p *Provider) TableFunction() string {
	return p.builder.TableFunction()
}

// Aliases returns the aliases in use
func (p *Provider) Aliases() Aliases {
	return p.aliases
}

func searchForm(form any) (types.SearchForm, error) {
	sf, ok := form.(types.SearchForm)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", types.ErrCapability, form)
	}
	return sf, nil
}

// ApplyWhere joins the full-text table function to the query and applies
// the form's ordinary filters on top. Terms without a predicate are
// delegated to the default provider untouched.
func (p *Provider) ApplyWhere(q types.Query, form any) (types.Query, error) {
	sf, err := searchForm(form)
	if err != nil {
		return nil, err
	}

	pred, ok := p.builder.Build(sf.SearchTerm())
	if !ok {
		p.log.Debug("no full-text predicate, delegating", "op", "where", "table", p.cfg.Table)
		return p.def.ApplyWhere(q, form)
	}

	if err := p.checkSource(q); err != nil {
		return nil, err
	}

	filtered, err := p.def.ApplyWhere(q.WithRawSQL(p.base, pred), form)
	if err != nil {
		return nil, fmt.Errorf("failed to apply default filters: %w", err)
	}

	s, err := p.splice(filtered, pred, false)
	if err != nil {
		return nil, err
	}

	p.log.Debug("full-text join spliced", "op", "where", "table", p.cfg.Table, "mode", p.builder.Mode())
	return q.WithRawSQL(s.sql, s.args...), nil
}

// ApplyPagination pages a query produced by ApplyWhere. With rank sorting
// requested the page is ordered by relevance; otherwise the default
// provider's ordering and paging are grafted onto the full-text query.
func (p *Provider) ApplyPagination(q types.Query, form any) (*types.PaginationResult, error) {
	sf, err := searchForm(form)
	if err != nil {
		return nil, err
	}

	pred, ok := p.builder.Build(sf.SearchTerm())
	if !ok {
		p.log.Debug("no full-text predicate, delegating", "op", "pagination", "table", p.cfg.Table)
		return p.def.ApplyPagination(q, form)
	}

	spec := sf.PageSpec()
	src := q
	var delegated *types.PaginationResult
	if !spec.SortByTermRank {
		delegated, err = p.def.ApplyPagination(q, form)
		if err != nil {
			return nil, fmt.Errorf("failed to apply default pagination: %w", err)
		}
		src = delegated.Query
	}

	s, err := p.splice(src, pred, true)
	if err != nil {
		return nil, err
	}

	sql := s.sql
	var w types.Window
	if spec.SortByTermRank {
		w = p.def.Paging().Window(spec)
		sql = joinClauses(sql, p.rankClause(w))
	}

	args := s.args
	if s.inlined {
		sql, err = bindPredicate(sql, p.builder.TableFunction(), pred)
		if err != nil {
			return nil, err
		}
		args = []any{pred}
	}

	final := q.WithRawSQL(sql, args...)
	if delegated != nil {
		res := *delegated
		res.Query = final
		return &res, nil
	}

	p.log.Debug("ranked page applied", "table", p.cfg.Table, "offset", w.Offset, "fetch", w.Fetch)
	return p.def.NewPaginationResult(final, w, false), nil
}

// splice flattens q onto the full-text join. For pagination the join is
// taken from q's own derived source.
func (p *Provider) splice(q types.Query, pred string, pagination bool) (*spliced, error) {
	if fr, ok := q.(types.Fragmenter); ok && !p.lineSplicing {
		return fragmentSplice(fr, p.aliases, p.base, []any{pred}, pagination)
	}

	text, err := q.SQL()
	if err != nil {
		return nil, fmt.Errorf("failed to render query: %w", err)
	}

	leading, tail, err := lineSplice(text, p.aliases, pagination)
	if err != nil {
		return nil, err
	}
	if leading == "" {
		leading = p.base
	}

	s := &spliced{sql: joinClauses(leading, tail), inlined: pagination}
	if !pagination {
		s.args = []any{pred}
	}
	return s, nil
}

// checkSource requires a root query: one without the full-text join and
// without clauses of its own, which replacing its source would drop
func (p *Provider) checkSource(q types.Query) error {
	text, err := q.SQL()
	if err != nil {
		return fmt.Errorf("failed to render query: %w", err)
	}
	if strings.Contains(text, "AS "+p.aliases.key()) {
		return types.ErrDuplicateJoin
	}

	if fr, ok := q.(types.Fragmenter); ok && !p.lineSplicing {
		frags, err := fr.Fragments(p.aliases.Table)
		if err != nil {
			return err
		}
		for _, f := range frags {
			if f.Kind == types.FragmentWhere || f.Kind == types.FragmentOrder {
				return &types.RewriteError{Stage: "source", Detail: "query already has " + f.Kind.String() + " clauses"}
			}
		}
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.ToUpper(strings.TrimSpace(line))
		for _, clause := range rootClauses {
			if strings.HasPrefix(line, clause) {
				return &types.RewriteError{Stage: "source", Detail: "query already has a " + strings.TrimSpace(clause) + " clause"}
			}
		}
	}
	return nil
}

// rootClauses open the outer clauses of a rendered query
var rootClauses = []string{"WHERE ", "ORDER BY ", "OFFSET ", "LIMIT "}
