// Package daycache keeps the boards a player has already fetched, one per
// calendar day, in a local BadgerDB so the terminal client can start a
// session without a network round trip.
//
// Keys are "konnections_puzzle_<YYYY-MM-DD>". Every Put drops entries more
// than RetentionDays older than the writer's local date. Keys whose date
// does not parse are left alone. A value that no longer decodes as a valid
// board reads as a miss.
package daycache

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/konnections/internal/daily"
	"github.com/robalobadob/konnections/internal/puzzle"
)

// KeyPrefix namespaces day entries.
const KeyPrefix = "konnections_puzzle_"

// RetentionDays is how far back entries survive a purge.
const RetentionDays = 7

// Cache is a BadgerDB-backed day cache. Safe for concurrent use.
type Cache struct {
	db  *badger.DB
	now func() time.Time
	loc *time.Location
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock and zone used to decide "today" for purges.
func WithClock(now func() time.Time, loc *time.Location) Option {
	return func(c *Cache) {
		c.now = now
		c.loc = loc
	}
}

// Open opens (creating if needed) a cache in dir. An empty dir opens an
// in-memory cache.
func Open(dir string, opts ...Option) (*Cache, error) {
	var bo badger.Options
	if dir == "" {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
		}
		bo = badger.DefaultOptions(dir)
	}
	bo = bo.WithNumVersionsToKeep(1).WithLogger(newBadgerLogger(log.With().Str("component", "daycache").Logger()))

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open day cache: %w", err)
	}
	c := &Cache{db: db, now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Close releases the database.
func (c *Cache) Close() error { return c.db.Close() }

// Key returns the storage key for a date key.
func Key(dateKey string) []byte { return []byte(KeyPrefix + dateKey) }

// Get returns the cached board for dateKey.
func (c *Cache) Get(dateKey string) (*puzzle.Board, bool) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(dateKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("date", dateKey).Msg("day cache read failed")
		return nil, false
	}
	b, err := puzzle.Decode(raw)
	if err != nil {
		log.Warn().Err(err).Str("date", dateKey).Msg("day cache entry is corrupt")
		return nil, false
	}
	return b, true
}

// Put stores b under dateKey, then purges stale days.
func (c *Cache) Put(dateKey string, b *puzzle.Board) error {
	data, err := puzzle.Encode(b)
	if err != nil {
		return err
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(Key(dateKey), data)
	}); err != nil {
		return fmt.Errorf("write day cache: %w", err)
	}
	if n, err := c.Purge(); err != nil {
		log.Warn().Err(err).Msg("day cache purge failed")
	} else if n > 0 {
		log.Debug().Int("removed", n).Msg("purged old puzzles")
	}
	return nil
}

// Purge deletes entries dated more than RetentionDays before today and
// reports how many were removed.
func (c *Cache) Purge() (int, error) {
	today := daily.Today(c.now(), c.loc)

	var stale [][]byte
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(KeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			age, err := daily.DaysBetween(strings.TrimPrefix(string(key), KeyPrefix), today)
			if err != nil {
				continue
			}
			if age > RetentionDays {
				stale = append(stale, key)
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return 0, err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}

// badgerLogger routes Badger's logs through zerolog. Only warnings and
// errors pass.
type badgerLogger struct{ l zerolog.Logger }

func newBadgerLogger(l zerolog.Logger) badgerLogger {
	return badgerLogger{l.Level(zerolog.WarnLevel)}
}

func (b badgerLogger) Errorf(f string, args ...interface{}) {
	b.l.Error().Msgf(strings.TrimSpace(f), args...)
}

func (b badgerLogger) Warningf(f string, args ...interface{}) {
	b.l.Warn().Msgf(strings.TrimSpace(f), args...)
}

func (b badgerLogger) Infof(f string, args ...interface{}) {
	b.l.Debug().Msgf(strings.TrimSpace(f), args...)
}

func (b badgerLogger) Debugf(f string, args ...interface{}) {
	b.l.Trace().Msgf(strings.TrimSpace(f), args...)
}
