package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.NoError(t, CloseIfSupported(store))
}

func TestNewStoreSQLite(t *testing.T) {
	store, err := NewStore("sqlite", filepath.Join(t.TempDir(), "filtered.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)

	_, err = NewStore("sqlite", "")
	assert.Error(t, err)
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	assert.Error(t, err)
	assert.Equal(t, KindMemory, DefaultStoreKind())
}
