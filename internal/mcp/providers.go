package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/ftsearch/internal/fulltext"
	"github.com/dshills/ftsearch/pkg/types"
)

type providerEntry struct {
	provider *fulltext.Provider
}

// providerKey encodes every field of cfg so distinct setups never share a key
func providerKey(cfg fulltext.Config) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode provider key: %w", err)
	}
	return string(b), nil
}

// provider returns the cached full-text provider for cfg, creating it on
// first use. Providers hold configuration only, so sharing is safe.
func (s *Server) provider(cfg fulltext.Config) (*fulltext.Provider, error) {
	if cfg.Mode == types.SearchModeUnset {
		cfg.Mode = s.cfg.SearchMode()
	}

	key, err := providerKey(cfg)
	if err != nil {
		return nil, err
	}
	if e, ok := s.providers.Get(key); ok {
		return e.provider, nil
	}

	opts := []fulltext.Option{fulltext.WithLogger(s.log)}
	if s.cfg.LineSplicing() {
		opts = append(opts, fulltext.WithLineSplicing())
	}

	p, err := fulltext.New(cfg, s.def, opts...)
	if err != nil {
		return nil, err
	}
	s.providers.Add(key, &providerEntry{provider: p})
	s.log.Debug("full-text provider created", "table", cfg.Table, "mode", cfg.Mode, "line_splicing", s.cfg.LineSplicing())
	return p, nil
}
