package storage_test

import (
	"testing"

	"github.com/chronoluxe/rental-frontend/storage"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]storage.Store {
	t.Helper()
	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]storage.Store{
		"inmemory": storage.NewInMemoryStore(),
		"file":     fileStore,
	}
}

func TestStore_ReadWriteRemove(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("read missing key", func(t *testing.T) {
				_, err := store.Read("auth")
				require.ErrorIs(t, err, storage.ErrNotFound)
			})

			t.Run("round trip", func(t *testing.T) {
				require.NoError(t, store.Write("auth", []byte(`{"token":"abc"}`)))
				value, err := store.Read("auth")
				require.NoError(t, err)
				require.JSONEq(t, `{"token":"abc"}`, string(value))
			})

			t.Run("overwrite", func(t *testing.T) {
				require.NoError(t, store.Write("auth", []byte(`{"token":"xyz"}`)))
				value, err := store.Read("auth")
				require.NoError(t, err)
				require.JSONEq(t, `{"token":"xyz"}`, string(value))
			})

			t.Run("remove", func(t *testing.T) {
				require.NoError(t, store.Remove("auth"))
				_, err := store.Read("auth")
				require.ErrorIs(t, err, storage.ErrNotFound)
			})

			t.Run("remove absent key is not an error", func(t *testing.T) {
				require.NoError(t, store.Remove("auth"))
			})

			t.Run("empty key rejected", func(t *testing.T) {
				require.Error(t, store.Write("", []byte("x")))
			})
		})
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.Error(t, store.Write("../escape", []byte("x")))
	require.Error(t, store.Write("a/b", []byte("x")))
}
