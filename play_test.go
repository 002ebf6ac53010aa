package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/konnections/internal/client"
	"github.com/robalobadob/konnections/internal/daycache"
	"github.com/robalobadob/konnections/internal/puzzle"
)

type fakeFetcher struct {
	board    *puzzle.Board
	fallback bool
	err      error
	calls    int
	dates    []string
}

func (f *fakeFetcher) Puzzle(_ context.Context, date string) (*client.Response, error) {
	f.calls++
	f.dates = append(f.dates, date)
	if f.err != nil {
		return nil, f.err
	}
	return &client.Response{Puzzle: f.board.Clone(), Fallback: f.fallback}, nil
}

func dayBoard() *puzzle.Board {
	b := puzzle.Fallback()
	b.Date = "October 18, 2026"
	return b
}

func newPlayer(f puzzleFetcher, cache *daycache.Cache) *player {
	return &player{
		fetcher: f,
		cache:   cache,
		now:     func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) },
		loc:     time.UTC,
	}
}

func play(t *testing.T, p *player, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	require.NoError(t, p.run(context.Background(), in, &out))
	return out.String()
}

func TestPlayWin(t *testing.T) {
	out := play(t, newPlayer(&fakeFetcher{board: dayBoard()}, nil),
		"hail, rain, sleet, top",
		"submit",
		"top, snow",
		"submit",
		"bridge, chorus, hook, verse", "submit",
		"record, top, wheel, yoyo", "submit",
		"eight, fire, meat, moth", "submit",
		"quit",
	)

	assert.Contains(t, out, "October 18, 2026")
	assert.Contains(t, out, "One away...")
	assert.Contains(t, out, "Category found!")
	assert.Contains(t, out, "Splendid!")
	assert.Contains(t, out, "WET WEATHER: HAIL, RAIN, SLEET, SNOW")
	assert.Contains(t, out, "Konnections\nPuzzle: October 18, 2026\n🟨🟨🟨🟦\n🟨🟨🟨🟨\n🟩🟩🟩🟩\n🟦🟦🟦🟦\n🟪🟪🟪🟪")
}

func TestPlayLoseThenAgain(t *testing.T) {
	f := &fakeFetcher{board: dayBoard()}
	script := []string{}
	for i := 0; i < 4; i++ {
		script = append(script, "clear", "hail, rain, top, wheel", "submit")
	}
	script = append(script, "again", "share", "quit")

	out := play(t, newPlayer(f, nil), script...)
	assert.Contains(t, out, "Not quite.")
	assert.Contains(t, out, "Next time!")
	assert.Contains(t, out, "___ BALL: EIGHT, FIRE, MEAT, MOTH")
	assert.Equal(t, 2, f.calls, "again fetches a fresh board")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Konnections\nPuzzle: October 18, 2026\n\n>"))
}

func TestPlayRejectsBadInput(t *testing.T) {
	out := play(t, newPlayer(&fakeFetcher{board: dayBoard()}, nil),
		"submit",
		"banana",
		"again",
		"tag",
		"quit",
	)
	assert.Contains(t, out, "Select four words first.")
	assert.Contains(t, out, "Can't select BANANA.")
	assert.Contains(t, out, "Finish this one first.")
	assert.Contains(t, out, "tag needs a color")
}

func TestPlaySubmitAfterGameOver(t *testing.T) {
	script := []string{}
	for i := 0; i < 4; i++ {
		script = append(script, "clear", "hail, rain, top, wheel", "submit")
	}
	script = append(script, "submit", "quit")

	out := play(t, newPlayer(&fakeFetcher{board: dayBoard()}, nil), script...)
	assert.Contains(t, out, "This game is over.")
	assert.NotContains(t, out, "Select four words first.")
}

func TestPlayTagMode(t *testing.T) {
	out := play(t, newPlayer(&fakeFetcher{board: dayBoard()}, nil),
		"tag coral",
		"hail",
		"tag none",
		"quit",
	)
	assert.Contains(t, out, "tagging: Group A")
}

func TestPlayUsesDayCache(t *testing.T) {
	cache, err := daycache.Open("", daycache.WithClock(func() time.Time {
		return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	}, time.UTC))
	require.NoError(t, err)
	defer cache.Close()

	f := &fakeFetcher{board: dayBoard()}
	play(t, newPlayer(f, cache), "quit")
	require.Equal(t, 1, f.calls)

	_, ok := cache.Get("2026-10-18")
	require.True(t, ok)

	// second start is served locally
	f.err = errors.New("offline")
	out := play(t, newPlayer(f, cache), "quit")
	assert.Equal(t, 1, f.calls)
	assert.Contains(t, out, "October 18, 2026")
}

func TestPlayRequestsLocalDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	cache, err := daycache.Open("")
	require.NoError(t, err)
	defer cache.Close()

	// 22:00 on Oct 18 in New York is already Oct 19 in UTC
	f := &fakeFetcher{board: dayBoard()}
	p := newPlayer(f, cache)
	p.now = func() time.Time { return time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC) }
	p.loc = ny
	play(t, p, "quit")

	assert.Equal(t, []string{"2026-10-18"}, f.dates)
	_, ok := cache.Get("2026-10-18")
	assert.True(t, ok)
	_, ok = cache.Get("2026-10-19")
	assert.False(t, ok)
}

func TestPlayRequestsExplicitDate(t *testing.T) {
	f := &fakeFetcher{board: dayBoard()}
	p := newPlayer(f, nil)
	p.date = "2026-02-03"
	play(t, p, "quit")
	assert.Equal(t, []string{"2026-02-03"}, f.dates)
}

func TestPlayDoesNotCacheFallback(t *testing.T) {
	cache, err := daycache.Open("")
	require.NoError(t, err)
	defer cache.Close()

	out := play(t, newPlayer(&fakeFetcher{board: puzzle.Fallback(), fallback: true}, cache), "quit")
	assert.Contains(t, out, "playing a classic")
	_, ok := cache.Get("2026-10-18")
	assert.False(t, ok)
}

func TestPlayFetchError(t *testing.T) {
	var out bytes.Buffer
	err := newPlayer(&fakeFetcher{err: client.ErrBadResponse}, nil).
		run(context.Background(), strings.NewReader(""), &out)
	assert.ErrorIs(t, err, client.ErrBadResponse)
}
