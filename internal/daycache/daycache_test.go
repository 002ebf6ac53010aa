package daycache

import (
	"bytes"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/konnections/internal/puzzle"
)

func openMem(t *testing.T, now time.Time) *Cache {
	t.Helper()
	c, err := Open("", WithClock(func() time.Time { return now }, time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := openMem(t, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))

	_, ok := c.Get("2026-10-18")
	assert.False(t, ok)

	require.NoError(t, c.Put("2026-10-18", puzzle.Fallback()))
	got, ok := c.Get("2026-10-18")
	require.True(t, ok)
	assert.Equal(t, puzzle.Fallback().Categories, got.Categories)
}

func TestPutPurgesOldDays(t *testing.T) {
	c := openMem(t, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	b := puzzle.Fallback()

	for _, d := range []string{"2026-10-01", "2026-10-10", "2026-10-11", "2026-10-17"} {
		require.NoError(t, c.db.Update(func(txn *badger.Txn) error {
			data, err := puzzle.Encode(b)
			require.NoError(t, err)
			return txn.Set(Key(d), data)
		}))
	}
	require.NoError(t, c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(KeyPrefix+"someday"), []byte("x"))
	}))

	require.NoError(t, c.Put("2026-10-18", b))

	for d, want := range map[string]bool{
		"2026-10-01": false,
		"2026-10-10": false, // 8 days old
		"2026-10-11": true,  // exactly 7
		"2026-10-17": true,
		"2026-10-18": true,
	} {
		_, ok := c.Get(d)
		assert.Equal(t, want, ok, d)
	}

	// unparseable keys survive
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(KeyPrefix + "someday"))
		return err
	})
	assert.NoError(t, err)
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c := openMem(t, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	require.NoError(t, c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(Key("2026-10-18"), []byte(`{"date":"x"`))
	}))
	_, ok := c.Get("2026-10-18")
	assert.False(t, ok)
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	now := func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

	c, err := Open(dir, WithClock(now, time.UTC))
	require.NoError(t, err)
	require.NoError(t, c.Put("2026-10-18", puzzle.Fallback()))
	require.NoError(t, c.Close())

	c, err = Open(dir, WithClock(now, time.UTC))
	require.NoError(t, err)
	defer c.Close()
	_, ok := c.Get("2026-10-18")
	assert.True(t, ok)
}

func TestBadgerLoggerKeepsWarningsOnly(t *testing.T) {
	var buf bytes.Buffer
	l := newBadgerLogger(zerolog.New(&buf))

	l.Debugf("compaction %d\n", 1)
	l.Infof("level 0 tables: %d\n", 3)
	assert.Empty(t, buf.String())

	l.Warningf("value log %s\n", "truncated")
	l.Errorf("disk %s", "full")
	assert.Contains(t, buf.String(), `"level":"warn","message":"value log truncated"`)
	assert.Contains(t, buf.String(), `"level":"error","message":"disk full"`)
}
