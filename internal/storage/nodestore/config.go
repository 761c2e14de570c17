package nodestore

import (
	"fmt"
	"log/slog"

	"github.com/LeJamon/carbond/internal/storage/keyValueDb"
	"github.com/LeJamon/carbond/internal/storage/keyValueDb/leveldb"
	"github.com/LeJamon/carbond/internal/storage/keyValueDb/pebble"
	"github.com/LeJamon/carbond/internal/storage/nodestore/compression"
)

const (
	BackendMemory  = "memory"
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
)

// Config holds configuration options for the NodeStore.
type Config struct {
	Backend    string `toml:"type" mapstructure:"type"`
	Path       string `toml:"path" mapstructure:"path"`
	Compressor string `toml:"compression" mapstructure:"compression"`
	CacheSize  int    `toml:"cache_size" mapstructure:"cache_size"`
}

// DefaultConfig returns an in-memory, lz4-compressed configuration.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendMemory,
		Compressor: "lz4",
		CacheSize:  4096,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPebble, BackendLevelDB:
		if c.Path == "" {
			return fmt.Errorf("%w: path must be specified for %s", ErrInvalidConfig, c.Backend)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedBackend, c.Backend)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must be non-negative", ErrInvalidConfig)
	}
	if _, err := compression.Get(c.Compressor); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

type options struct {
	logger *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger used by the database.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open validates cfg, opens the configured backend and wraps it.
func Open(cfg Config, opts ...Option) (*DatabaseImpl, error) {
	if cfg.Compressor == "" {
		cfg.Compressor = "lz4"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		backend keyValueDb.DB
		err     error
	)
	switch cfg.Backend {
	case BackendMemory:
		backend = keyValueDb.NewMemoryDB()
	case BackendPebble:
		backend, err = pebble.Open(cfg.Path)
	case BackendLevelDB:
		backend, err = leveldb.Open(cfg.Path)
	}
	if err != nil {
		return nil, err
	}

	comp, _ := compression.Get(cfg.Compressor)
	db, err := NewDatabase(backend, cfg.Backend, comp, cfg.CacheSize)
	if err != nil {
		backend.Close()
		return nil, err
	}
	db.logger = o.logger.With("component", "nodestore", "backend", cfg.Backend)
	db.logger.Info("node store opened", "path", cfg.Path, "compression", comp.Name())
	return db, nil
}
