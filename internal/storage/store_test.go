// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Get(KeySessionID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set(KeySessionID, "abc123"))

	value, ok, err := store.Get(KeySessionID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", value)
}

func TestSetOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set(KeySessionID, "first"))
	require.NoError(t, store.Set(KeySessionID, "second"))

	value, ok, err := store.Get(KeySessionID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set(KeySessionID, "abc123"))
	require.NoError(t, store.Remove(KeySessionID))

	_, ok, err := store.Get(KeySessionID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error.
	assert.NoError(t, store.Remove(KeySessionID))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeySessionID, "abc123"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(KeySessionID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", value)
}

func TestUseAfterClose(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	_, _, err := store.Get(KeySessionID)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set("k", "v"), ErrClosed)
	assert.ErrorIs(t, store.Remove("k"), ErrClosed)
}
