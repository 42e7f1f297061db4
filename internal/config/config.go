// Package config loads the ftsearch server configuration from defaults,
// an optional YAML file and FTSEARCH_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/dshills/ftsearch/internal/sqlq"
	"github.com/dshills/ftsearch/pkg/types"
)

// EnvPrefix prefixes every environment variable, e.g. FTSEARCH_DB_DSN
const EnvPrefix = "FTSEARCH"

// Config is the server configuration
type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Search SearchConfig `mapstructure:"search"`
	Paging PagingConfig `mapstructure:"paging"`
	Log    LogConfig    `mapstructure:"log"`
}

// DBConfig selects the database queries are rendered for and run against.
// An empty DSN disables execution.
type DBConfig struct {
	DSN     string `mapstructure:"dsn"`
	Dialect string `mapstructure:"dialect"`
}

// SearchConfig selects the predicate syntax and how search SQL is
// recombined: "fragments" from typed clauses, "lines" from rendered text
type SearchConfig struct {
	Mode     string `mapstructure:"mode"`
	Splicing string `mapstructure:"splicing"`
}

// Splicing strategies
const (
	SplicingFragments = "fragments"
	SplicingLines     = "lines"
)

type PagingConfig struct {
	Mode            string `mapstructure:"mode"`
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.dialect", sqlq.SQLServer.Name)
	v.SetDefault("search.mode", string(types.SearchModeWeightedPrefixes))
	v.SetDefault("search.splicing", SplicingFragments)
	v.SetDefault("paging.mode", string(types.PaginationPageBased))
	v.SetDefault("paging.default_page_size", types.DefaultPageSize)
	v.SetDefault("paging.max_page_size", types.DefaultMaxPageSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration. path may be empty; a named file that does
// not exist is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot start with
func (c *Config) Validate() error {
	var errs []error

	dialect, err := sqlq.DialectByName(c.DB.Dialect)
	if err != nil {
		errs = append(errs, err)
	} else if c.DB.DSN != "" && dialect.Name != sqlq.SQLite.Name {
		errs = append(errs, fmt.Errorf("db.dsn requires the %s dialect, got %q", sqlq.SQLite.Name, c.DB.Dialect))
	}
	if _, err := types.ParseSearchMode(c.Search.Mode); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Search.Splicing) {
	case "", SplicingFragments, SplicingLines:
	default:
		errs = append(errs, fmt.Errorf("unknown splicing strategy %q", c.Search.Splicing))
	}
	switch types.PaginationMode(c.Paging.Mode) {
	case types.PaginationPageBased, types.PaginationSkipAndTake:
	default:
		errs = append(errs, fmt.Errorf("unknown pagination mode %q", c.Paging.Mode))
	}
	if c.Paging.DefaultPageSize <= 0 {
		errs = append(errs, fmt.Errorf("paging.default_page_size must be positive, got %d", c.Paging.DefaultPageSize))
	}
	if c.Paging.MaxPageSize < c.Paging.DefaultPageSize {
		errs = append(errs, fmt.Errorf("paging.max_page_size %d is below the default page size %d",
			c.Paging.MaxPageSize, c.Paging.DefaultPageSize))
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SearchMode returns the configured search mode
func (c *Config) SearchMode() types.SearchMode {
	m, _ := types.ParseSearchMode(c.Search.Mode)
	return m
}

// LineSplicing reports whether search SQL is spliced from rendered text
func (c *Config) LineSplicing() bool {
	return strings.EqualFold(c.Search.Splicing, SplicingLines)
}

// Dialect returns the configured SQL dialect
func (c *Config) Dialect() (sqlq.Dialect, error) {
	return sqlq.DialectByName(c.DB.Dialect)
}

// PagingOptions converts the paging section
func (c *Config) PagingOptions() types.PagingOptions {
	return types.PagingOptions{
		Mode:            types.PaginationMode(c.Paging.Mode),
		DefaultPageSize: c.Paging.DefaultPageSize,
		MaxPageSize:     c.Paging.MaxPageSize,
	}
}

// NewLogger builds a logger writing to w
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(c.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
