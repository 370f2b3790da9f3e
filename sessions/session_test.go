package sessions_test

import (
	"testing"

	"github.com/dignahq/go-digna-client/sessions"
	"github.com/dignahq/go-digna-client/users"
	"github.com/stretchr/testify/require"
)

func TestStore_SetUser(t *testing.T) {
	store := sessions.NewStore()
	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())

	user := &users.User{UserID: "1", Email: "a@b.com"}
	store.SetUser(user)
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "a@b.com", store.User().Email)

	store.SetUser(nil)
	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := sessions.NewStore()
	store.SetUser(&users.User{UserID: "1", Email: "a@b.com"})

	snap := store.Snapshot()
	snap.User.Email = "mutated@example.com"
	require.Equal(t, "a@b.com", store.User().Email)
}

func TestStore_Error(t *testing.T) {
	store := sessions.NewStore()
	store.SetError("Login failed")
	require.Equal(t, "Login failed", store.Error())

	store.ClearError()
	require.Empty(t, store.Error())
}

func TestStore_Subscribe(t *testing.T) {
	store := sessions.NewStore()

	var seen []sessions.Snapshot
	unsubscribe := store.Subscribe(func(snap sessions.Snapshot) {
		seen = append(seen, snap)
	})

	store.SetUser(&users.User{UserID: "1"})
	store.SetError("boom")
	require.Len(t, seen, 2)
	require.True(t, seen[0].IsAuthenticated)
	require.Equal(t, "boom", seen[1].Error)

	unsubscribe()
	store.SetUser(nil)
	require.Len(t, seen, 2)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	store := sessions.NewStore()

	// reading from inside the callback must not deadlock
	done := make(chan struct{})
	store.Subscribe(func(sessions.Snapshot) {
		_ = store.IsAuthenticated()
		close(done)
	})
	store.SetUser(&users.User{UserID: "1"})
	<-done
}
