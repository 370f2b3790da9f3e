package storage_test

import (
	"errors"
	"testing"

	"github.com/dignahq/go-digna-client/storage"
	fakekvrepo "github.com/dignahq/go-digna-client/storage/repofakes"
	"github.com/dignahq/go-digna-client/users"
	"github.com/stretchr/testify/require"
)

const (
	testAccessToken  = "access-token-1"
	testRefreshToken = "refresh-token-1"
)

func newTokenStore(t *testing.T) (*storage.TokenStore, *fakekvrepo.FakeKVRepo) {
	t.Helper()
	repo := fakekvrepo.NewFakeKVRepo()
	ts, err := storage.NewTokenStore(repo)
	require.NoError(t, err)
	return ts, repo
}

func TestTokenStore_SetTokens(t *testing.T) {
	t.Run("stores both tokens", func(t *testing.T) {
		ts, _ := newTokenStore(t)
		require.NoError(t, ts.SetTokens(testAccessToken, testRefreshToken))
		require.Equal(t, testAccessToken, ts.Token())
		require.Equal(t, testRefreshToken, ts.RefreshToken())
	})

	t.Run("rejects a partial pair", func(t *testing.T) {
		ts, _ := newTokenStore(t)
		require.Error(t, ts.SetTokens(testAccessToken, ""))
		require.Error(t, ts.SetTokens("", testRefreshToken))
		require.Empty(t, ts.Token())
		require.Empty(t, ts.RefreshToken())
	})

	t.Run("failed write leaves neither token behind", func(t *testing.T) {
		ts, repo := newTokenStore(t)
		repo.SetManyErr = errors.New("disk full")
		require.Error(t, ts.SetTokens(testAccessToken, testRefreshToken))
		require.Empty(t, ts.Token())
		require.Empty(t, ts.RefreshToken())
	})
}

func TestTokenStore_ClearTokens(t *testing.T) {
	ts, _ := newTokenStore(t)
	require.NoError(t, ts.SetTokens(testAccessToken, testRefreshToken))
	require.NoError(t, ts.ClearTokens())
	require.Empty(t, ts.Token())
	require.Empty(t, ts.RefreshToken())
}

func TestTokenStore_SaveUser(t *testing.T) {
	user := &users.User{UserID: "1", Email: "a@b.com", FirstName: "A", LastName: "B"}

	t.Run("round trips through JSON", func(t *testing.T) {
		ts, _ := newTokenStore(t)
		require.NoError(t, ts.SetTokens(testAccessToken, testRefreshToken))
		require.NoError(t, ts.SaveUser(user))

		loaded, err := ts.LoadUser()
		require.NoError(t, err)
		require.Equal(t, user, loaded)
	})

	t.Run("refuses to persist a user without an access token", func(t *testing.T) {
		ts, _ := newTokenStore(t)
		require.Error(t, ts.SaveUser(user))
		_, err := ts.LoadUser()
		require.ErrorIs(t, err, storage.KeyNotFoundErr)
	})
}

func TestTokenStore_LoadUser(t *testing.T) {
	t.Run("missing record", func(t *testing.T) {
		ts, _ := newTokenStore(t)
		_, err := ts.LoadUser()
		require.ErrorIs(t, err, storage.KeyNotFoundErr)
	})

	t.Run("corrupt record is an error but not a missing key", func(t *testing.T) {
		ts, repo := newTokenStore(t)
		require.NoError(t, repo.Set(storage.KeyUser, "{not json"))
		_, err := ts.LoadUser()
		require.Error(t, err)
		require.NotErrorIs(t, err, storage.KeyNotFoundErr)
	})
}

func TestTokenStore_ClearSession(t *testing.T) {
	ts, _ := newTokenStore(t)
	require.NoError(t, ts.SetTokens(testAccessToken, testRefreshToken))
	require.NoError(t, ts.SaveUser(&users.User{UserID: "1", Email: "a@b.com"}))
	require.NoError(t, ts.SavePendingEmail("a@b.com"))

	require.NoError(t, ts.ClearSession())

	require.Empty(t, ts.Token())
	require.Empty(t, ts.RefreshToken())
	_, err := ts.LoadUser()
	require.ErrorIs(t, err, storage.KeyNotFoundErr)
	// the pending registration email survives a logout
	require.Equal(t, "a@b.com", ts.PendingEmail())
}
