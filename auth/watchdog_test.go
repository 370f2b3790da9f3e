package auth

import (
	"testing"
	"time"

	"github.com/dignahq/go-digna-client/sessions"
	"github.com/dignahq/go-digna-client/users"
	"github.com/stretchr/testify/require"
)

type watchdogConfig struct{}

func (watchdogConfig) GetSessionTimeout() time.Duration   { return time.Hour }
func (watchdogConfig) GetActivityThrottle() time.Duration { return 30 * time.Second }

type fakeTimer struct {
	resets  int
	stopped bool
}

func (t *fakeTimer) Reset(time.Duration) bool { t.resets++; return true }
func (t *fakeTimer) Stop() bool               { t.stopped = true; return true }

type watchdogHarness struct {
	watchdog *Watchdog
	timer    *fakeTimer
	expireFn func()
	now      time.Time
	logouts  int
}

func newWatchdogHarness() *watchdogHarness {
	h := &watchdogHarness{
		timer: &fakeTimer{},
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	h.watchdog = NewWatchdog(watchdogConfig{},
		func() { h.logouts++ },
		WithWatchdogNowTime(func() time.Time { return h.now }),
		WithTimerFactory(func(d time.Duration, fn func()) watchdogTimer {
			h.expireFn = fn
			return h.timer
		}),
	)
	return h
}

func (h *watchdogHarness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

func TestWatchdog_Expiry(t *testing.T) {
	t.Run("expiry fires the logout exactly once", func(t *testing.T) {
		h := newWatchdogHarness()
		h.watchdog.Start()

		h.expireFn()
		require.Equal(t, 1, h.logouts)

		h.expireFn()
		require.Equal(t, 1, h.logouts)
	})

	t.Run("expiry after stop does nothing", func(t *testing.T) {
		h := newWatchdogHarness()
		h.watchdog.Start()
		h.watchdog.Stop()

		h.expireFn()
		require.Zero(t, h.logouts)
		require.True(t, h.timer.stopped)
	})

	t.Run("restart after expiry rearms", func(t *testing.T) {
		h := newWatchdogHarness()
		h.watchdog.Start()
		h.expireFn()

		h.watchdog.Start()
		h.expireFn()
		require.Equal(t, 2, h.logouts)
	})
}

func TestWatchdog_Activity(t *testing.T) {
	t.Run("activity inside the throttle window is ignored", func(t *testing.T) {
		h := newWatchdogHarness()
		h.watchdog.Start()

		h.advance(10 * time.Second)
		h.watchdog.Activity()
		h.advance(10 * time.Second)
		h.watchdog.Activity()
		require.Zero(t, h.timer.resets)
	})

	t.Run("activity past the throttle window reschedules once", func(t *testing.T) {
		h := newWatchdogHarness()
		h.watchdog.Start()

		h.advance(31 * time.Second)
		h.watchdog.Activity()
		require.Equal(t, 1, h.timer.resets)

		h.advance(10 * time.Second)
		h.watchdog.Activity()
		require.Equal(t, 1, h.timer.resets)

		h.advance(30 * time.Second)
		h.watchdog.Activity()
		require.Equal(t, 2, h.timer.resets)
	})

	t.Run("activity before start is a no-op", func(t *testing.T) {
		h := newWatchdogHarness()
		h.watchdog.Activity()
		require.Zero(t, h.timer.resets)
		require.Zero(t, h.logouts)
	})
}

func TestWatchdog_StartIsIdempotent(t *testing.T) {
	h := newWatchdogHarness()
	created := 0
	h.watchdog.newTimer = func(d time.Duration, fn func()) watchdogTimer {
		created++
		h.expireFn = fn
		return h.timer
	}

	h.watchdog.Start()
	h.watchdog.Start()
	require.Equal(t, 1, created)
}

func TestBindWatchdog(t *testing.T) {
	t.Run("arms on sign-in and disarms on sign-out", func(t *testing.T) {
		h := newWatchdogHarness()
		sess := sessions.NewStore()

		unbind := BindWatchdog(sess, h.watchdog)
		defer unbind()

		sess.SetUser(&users.User{UserID: "1", Email: "a@b.com"})
		h.watchdog.lock.Lock()
		running := h.watchdog.running
		h.watchdog.lock.Unlock()
		require.True(t, running)

		sess.SetUser(nil)
		require.True(t, h.timer.stopped)
	})

	t.Run("binding an already authenticated session arms immediately", func(t *testing.T) {
		h := newWatchdogHarness()
		sess := sessions.NewStore()
		sess.SetUser(&users.User{UserID: "1", Email: "a@b.com"})

		unbind := BindWatchdog(sess, h.watchdog)
		defer unbind()
		require.NotNil(t, h.expireFn)
	})

	t.Run("unbind stops the watchdog", func(t *testing.T) {
		h := newWatchdogHarness()
		sess := sessions.NewStore()
		sess.SetUser(&users.User{UserID: "1", Email: "a@b.com"})

		unbind := BindWatchdog(sess, h.watchdog)
		unbind()
		require.True(t, h.timer.stopped)

		sess.SetUser(&users.User{UserID: "2", Email: "c@d.com"})
		h.watchdog.lock.Lock()
		running := h.watchdog.running
		h.watchdog.lock.Unlock()
		require.False(t, running)
	})
}
