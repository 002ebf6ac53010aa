package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/konnections/internal/config"
	"github.com/robalobadob/konnections/internal/httpserver"
	"github.com/robalobadob/konnections/internal/provider"
	"github.com/robalobadob/konnections/internal/puzzle"
)

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()

	st, closeFn, err := openStore(ctx, config.StoreConfig{Backend: config.BackendMemory})
	require.NoError(t, err)
	require.NoError(t, closeFn())
	assert.NotNil(t, st)

	path := filepath.Join(t.TempDir(), "data", "k.db")
	st, closeFn, err = openStore(ctx, config.StoreConfig{Backend: config.BackendSQLite, SQLitePath: path})
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, "2026-10-18", []byte(`{}`)))
	ok, err := st.Exists(ctx, "2026-10-18")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, closeFn())

	_, _, err = openStore(ctx, config.StoreConfig{Backend: "s3"})
	assert.Error(t, err)
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()

	src, err := openSource(ctx, config.SourceConfig{Provider: config.ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, src)

	src, err = openSource(ctx, config.SourceConfig{Provider: config.ProviderOpenAI, OpenAIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, src)

	_, err = openSource(ctx, config.SourceConfig{Provider: config.ProviderOpenAI})
	assert.Error(t, err)

	_, err = openSource(ctx, config.SourceConfig{Provider: "claude"})
	assert.Error(t, err)
}

func TestOpenBackendValidates(t *testing.T) {
	c := config.Default()
	c.Store.Backend = config.BackendGCS
	_, err := openBackend(context.Background(), c)
	assert.ErrorContains(t, err, "GCS_BUCKET")
}

func TestRunFetch(t *testing.T) {
	be, err := openBackend(context.Background(), config.Default())
	require.NoError(t, err)
	defer be.close()

	var out bytes.Buffer
	require.NoError(t, runFetch(context.Background(), be.provider, "2026-10-18", &out))

	var body httpserver.PuzzleResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, provider.Fallback, body.Provenance)
	assert.True(t, body.Fallback)
	assert.Equal(t, puzzle.FallbackDate, body.Puzzle.Date)
}

func TestResolveDate(t *testing.T) {
	cfg = config.Default()

	key, err := resolveDate("2026-02-03")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-03", key)

	_, err = resolveDate("03/02/2026")
	assert.Error(t, err)

	key, err = resolveDate("")
	require.NoError(t, err)
	assert.Len(t, key, len("2026-10-18"))
}
