// db.go
//
// Backend helpers for the Konnections binary.
// Responsibilities:
//   - Opening the configured puzzle store (memory, SQLite, GCS).
//   - Building the configured puzzle source (OpenAI, Gemini, none).
//   - Assembling the provider with metrics.
//
// Every opener returns a close func so commands can release handles with
// a single defer.

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/konnections/internal/config"
	"github.com/robalobadob/konnections/internal/metrics"
	"github.com/robalobadob/konnections/internal/provider"
	"github.com/robalobadob/konnections/internal/source"
	"github.com/robalobadob/konnections/internal/store"
)

func noop() error { return nil }

// openStore opens the store backend named in cfg.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory puzzle store; puzzles are lost on restart")
		return store.NewMemoryStore(), noop, nil

	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite puzzle store")
		return store.NewSQLStore(db), db.Close, nil

	case config.BackendGCS:
		g, err := store.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPrefix, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("bucket", cfg.GCSBucket).Str("prefix", cfg.GCSPrefix).Msg("using gcs puzzle store")
		return g, g.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// openSource builds the generator named in cfg. "none" yields a nil Source,
// which makes every miss fall back.
func openSource(ctx context.Context, cfg config.SourceConfig) (source.Source, error) {
	switch cfg.Provider {
	case config.ProviderNone:
		log.Warn().Msg("no puzzle source configured; uncached days serve the fallback puzzle")
		return nil, nil
	case config.ProviderOpenAI:
		return source.NewOpenAI(source.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.Timeout,
		})
	case config.ProviderGemini:
		return source.NewGemini(ctx, source.GeminiConfig{
			APIKey:  cfg.GeminiKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.Timeout,
		})
	}
	return nil, fmt.Errorf("unknown source provider %q", cfg.Provider)
}

// backend is everything a command needs to obtain puzzles.
type backend struct {
	store    store.Store
	provider *provider.Provider
	registry *prometheus.Registry
	close    func() error
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	st, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	src, err := openSource(ctx, cfg.Source)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	p := provider.New(st, src, provider.WithMetrics(metrics.New(reg)))

	return &backend{store: st, provider: p, registry: reg, close: closeStore}, nil
}
