package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/dignahq/go-digna-client/storage"
	"github.com/dignahq/go-digna-client/storage/sqlite"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "digna.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SetGet(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Set("token", "abc"))
	value, err := store.Get("token")
	require.NoError(t, err)
	require.Equal(t, "abc", value)

	// upsert replaces
	require.NoError(t, store.Set("token", "def"))
	value, err = store.Get("token")
	require.NoError(t, err)
	require.Equal(t, "def", value)
}

func TestStore_GetMissing(t *testing.T) {
	store := openStore(t)
	_, err := store.Get("nope")
	require.ErrorIs(t, err, storage.KeyNotFoundErr)
}

func TestStore_Delete(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Set("token", "abc"))
	require.NoError(t, store.Delete("token"))
	_, err := store.Get("token")
	require.ErrorIs(t, err, storage.KeyNotFoundErr)

	// deleting a missing key is not an error
	require.NoError(t, store.Delete("token"))
}

func TestStore_SetMany(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SetMany(map[string]string{
		"token":        "abc",
		"refreshToken": "def",
	}))

	token, err := store.Get("token")
	require.NoError(t, err)
	require.Equal(t, "abc", token)
	refresh, err := store.Get("refreshToken")
	require.NoError(t, err)
	require.Equal(t, "def", refresh)
}

func TestStore_DeleteMany(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SetMany(map[string]string{
		"token":        "abc",
		"refreshToken": "def",
		"user":         "{}",
	}))
	require.NoError(t, store.DeleteMany("token", "refreshToken"))

	_, err := store.Get("token")
	require.ErrorIs(t, err, storage.KeyNotFoundErr)
	_, err = store.Get("refreshToken")
	require.ErrorIs(t, err, storage.KeyNotFoundErr)
	user, err := store.Get("user")
	require.NoError(t, err)
	require.Equal(t, "{}", user)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digna.db")

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("token", "abc"))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	value, err := reopened.Get("token")
	require.NoError(t, err)
	require.Equal(t, "abc", value)
}
