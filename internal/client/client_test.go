package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/konnections/internal/puzzle"
)

func TestPuzzle(t *testing.T) {
	dates := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/puzzle", r.URL.Path)
		dates <- r.URL.Query().Get("date")
		_ = json.NewEncoder(w).Encode(Response{Puzzle: puzzle.Fallback(), Provenance: "fallback", Fallback: true})
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/").Puzzle(context.Background(), "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", <-dates)
	assert.True(t, res.Fallback)
	assert.Equal(t, puzzle.FallbackDate, res.Puzzle.Date)

	_, err = New(srv.URL).Puzzle(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, <-dates)
}

func TestPuzzleRejectsBadResponses(t *testing.T) {
	bad := puzzle.Fallback()
	bad.AllWords = bad.AllWords[:15]

	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_date"}`, http.StatusBadRequest)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		},
		"no puzzle": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"cached":true}`))
		},
		"invalid board": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(Response{Puzzle: bad})
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := New(srv.URL).Puzzle(context.Background(), "")
			assert.ErrorIs(t, err, ErrBadResponse)
		})
	}
}

func TestExists(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()
	c := New(srv.URL)

	ok, err := c.Exists(context.Background(), "2026-10-18")
	require.NoError(t, err)
	assert.False(t, ok)

	status.Store(http.StatusOK)
	ok, err = c.Exists(context.Background(), "2026-10-18")
	require.NoError(t, err)
	assert.True(t, ok)

	status.Store(http.StatusTooManyRequests)
	_, err = c.Exists(context.Background(), "2026-10-18")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Puzzle(context.Background(), "")
	assert.Error(t, err)
}
