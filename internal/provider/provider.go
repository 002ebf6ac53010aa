// internal/provider/provider.go
//
// Daily puzzle coordinator: cache-first lookup, generate on miss, persist
// after generate, fixed fallback when nothing else works.
//
// Obtain never fails. The caller learns where the board came from through
// Result.Provenance and, for a fresh board that could not be saved, through
// Result.CacheErr.
//
// Concurrency: calls are independent and lock-free. Two first requests for
// the same uncached day may both generate and both write; the last write
// wins, and any valid board for a day is as good as another. No retries.

package provider

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/konnections/internal/metrics"
	"github.com/robalobadob/konnections/internal/puzzle"
	"github.com/robalobadob/konnections/internal/source"
	"github.com/robalobadob/konnections/internal/store"
)

// Provenance says where a served board came from.
type Provenance string

const (
	Cached   Provenance = "cached"
	Fresh    Provenance = "fresh"
	Fallback Provenance = "fallback"
)

// Result is the outcome of Obtain.
type Result struct {
	Board      *puzzle.Board
	Provenance Provenance
	// CacheErr is set when a fresh board could not be persisted. Advisory only.
	CacheErr error
}

// Provider coordinates a Store and a Source.
type Provider struct {
	store   store.Store
	source  source.Source
	metrics *metrics.Metrics
	shuffle func([]string)
	now     func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Metrics) Option { return func(p *Provider) { p.metrics = m } }

// WithShuffle replaces the word permutation (tests use a deterministic one).
func WithShuffle(fn func([]string)) Option { return func(p *Provider) { p.shuffle = fn } }

// New builds a Provider. src may be nil, in which case every miss falls back.
func New(st store.Store, src source.Source, opts ...Option) *Provider {
	p := &Provider{
		store:   st,
		source:  src,
		shuffle: puzzle.ShuffleWords,
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Obtain returns the board for dateKey.
func (p *Provider) Obtain(ctx context.Context, dateKey string) Result {
	logger := log.Ctx(ctx).With().Str("date", dateKey).Logger()

	if b, ok := p.lookup(ctx, dateKey); ok {
		logger.Debug().Msg("cache hit")
		return p.finish(Result{Board: b, Provenance: Cached})
	}

	logger.Info().Msg("cache miss, generating")
	b, err := p.generate(ctx, dateKey)
	if err != nil {
		logger.Warn().Err(err).Msg("generation failed, serving fallback")
		return p.finish(Result{Board: puzzle.Fallback(), Provenance: Fallback})
	}

	res := Result{Board: b, Provenance: Fresh}
	if err := p.persist(ctx, dateKey, b); err != nil {
		logger.Error().Err(err).Msg("failed to cache puzzle")
		p.metrics.ObserveStoreError("write")
		res.CacheErr = err
	} else {
		logger.Info().Msg("cached puzzle")
	}
	return p.finish(res)
}

// lookup reads and validates the stored record. Any failure is a miss.
func (p *Provider) lookup(ctx context.Context, dateKey string) (*puzzle.Board, bool) {
	raw, err := p.store.Get(ctx, dateKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("date", dateKey).Msg("store read failed, treating as miss")
		p.metrics.ObserveStoreError("read")
		return nil, false
	}
	b, err := puzzle.Decode(raw)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("date", dateKey).Msg("stored puzzle is corrupt, treating as miss")
		p.metrics.ObserveStoreError("corrupt")
		return nil, false
	}
	return b, true
}

func (p *Provider) generate(ctx context.Context, dateKey string) (*puzzle.Board, error) {
	if p.source == nil {
		return nil, source.ErrUnavailable
	}
	start := p.now()
	b, err := p.source.Fetch(ctx, dateKey)
	switch {
	case err != nil:
	case b == nil:
		err = source.ErrUnavailable
	default:
		// every Source's output passes the same ingestion checks as a store read
		err = b.Validate()
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.metrics.ObserveSourceFetch(outcome, p.now().Sub(start).Seconds())
	return b, err
}

func (p *Provider) persist(ctx context.Context, dateKey string, b *puzzle.Board) error {
	data, err := puzzle.Encode(b)
	if err != nil {
		return err
	}
	return p.store.Put(ctx, dateKey, data)
}

// finish shuffles a private copy of the words and records the outcome.
func (p *Provider) finish(res Result) Result {
	res.Board = res.Board.Clone()
	p.shuffle(res.Board.AllWords)
	p.metrics.ObserveObtained(string(res.Provenance))
	return res
}
