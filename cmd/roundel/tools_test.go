package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/roundel/internal/storage"
)

func TestResolveTarget(t *testing.T) {
	t.Setenv("ROUNDEL_CONFIG", "")
	t.Setenv("ROUNDEL_STORE_PATH", filepath.Join(t.TempDir(), "roundel.db"))
	ctx := context.Background()

	store, err := openStore()
	require.NoError(t, err)
	require.NoError(t, store.SaveDevice(ctx, storage.NewDevice("kitchen", "192.168.1.40", "Pixoo", "pixoo64")))
	require.NoError(t, store.Close())

	assert.Equal(t, "192.168.1.40", resolveTarget(ctx, "kitchen"))
	assert.Equal(t, "10.0.0.9", resolveTarget(ctx, "10.0.0.9"))
	assert.Equal(t, "pixoo.local", resolveTarget(ctx, "pixoo.local"))
}
