package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/gestionrh/internal/storage/sqlite"
)

func TestCheckHealth(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.NewStore(ctx, filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)

	report, err := checkHealth(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, store.Name(), report.Database)

	store.Close()
	report, err = checkHealth(ctx, store)
	assert.Error(t, err)
	assert.Equal(t, "unreachable", report.Status)
}
