package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/ftsearch/internal/config"
	"github.com/dshills/ftsearch/internal/sqlq"
	"github.com/dshills/ftsearch/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "ftsearch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// providerCacheSize bounds the full-text providers kept per table setup
	providerCacheSize = 128
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	cfg       *config.Config
	def       *sqlq.Provider
	runner    *storage.Runner
	providers *lru.Cache[string, *providerEntry]
	log       *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewServer creates a new MCP server instance. A database is opened only
// when the configuration names one.
func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, *providerEntry](providerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider cache: %w", err)
	}

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		cfg:       cfg,
		def:       sqlq.NewProvider(dialect, sqlq.WithPaging(cfg.PagingOptions())),
		providers: cache,
		log:       log,
	}

	if cfg.DB.DSN != "" {
		runner, err := storage.Open(cfg.DB.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		s.runner = runner
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the database, if any. It is safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		if s.runner != nil {
			s.closeErr = s.runner.Close()
		}
	})
	return s.closeErr
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(buildPredicateTool(), s.handleBuildPredicate)
	s.mcp.AddTool(renderSearchQueryTool(), s.handleRenderSearchQuery)
	s.mcp.AddTool(runSearchTool(), s.handleRunSearch)
}
