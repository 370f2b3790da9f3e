package auth

import (
	"sync"
	"time"

	"github.com/dignahq/go-digna-client/internal/config"
	"github.com/dignahq/go-digna-client/sessions"
)

// watchdogTimer abstracts time.Timer so tests can fire expiry deterministically.
type watchdogTimer interface {
	Reset(d time.Duration) bool
	Stop() bool
}

type timerFactory func(d time.Duration, fn func()) watchdogTimer

type realTimer struct {
	*time.Timer
}

func defaultTimerFactory(d time.Duration, fn func()) watchdogTimer {
	return realTimer{time.AfterFunc(d, fn)}
}

// Watchdog logs the user out after a fixed window without recorded activity.
// Activity marks reschedule the timer, but rescheduling is throttled so a
// stream of input events does not churn the timer. Expiry fires onExpire
// exactly once per armed period.
type Watchdog struct {
	timeout  time.Duration
	throttle time.Duration
	onExpire func()
	nowTime  func() time.Time
	newTimer timerFactory

	lock      sync.Mutex
	timer     watchdogTimer
	lastReset time.Time
	running   bool
}

type WatchdogOption func(*Watchdog)

// WithWatchdogNowTime sets the now time function (primarily for testing)
func WithWatchdogNowTime(nowFunc func() time.Time) WatchdogOption {
	return func(w *Watchdog) {
		w.nowTime = nowFunc
	}
}

// WithTimerFactory replaces the timer construction (primarily for testing)
func WithTimerFactory(factory timerFactory) WatchdogOption {
	return func(w *Watchdog) {
		w.newTimer = factory
	}
}

func NewWatchdog(cfg config.SessionConfig, onExpire func(), options ...WatchdogOption) *Watchdog {
	w := &Watchdog{
		timeout:  cfg.GetSessionTimeout(),
		throttle: cfg.GetActivityThrottle(),
		onExpire: onExpire,
		nowTime:  time.Now,
		newTimer: defaultTimerFactory,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Start arms the watchdog. Starting an armed watchdog is a no-op.
func (w *Watchdog) Start() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.lastReset = w.nowTime()
	w.timer = w.newTimer(w.timeout, w.expire)
}

// Activity records user activity, rescheduling the timer at most once per
// throttle window.
func (w *Watchdog) Activity() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.running {
		return
	}
	now := w.nowTime()
	if now.Sub(w.lastReset) < w.throttle {
		return
	}
	w.lastReset = now
	w.timer.Reset(w.timeout)
}

// Stop tears the watchdog down. A timer that fires after Stop does nothing.
func (w *Watchdog) Stop() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.running {
		return
	}
	w.running = false
	w.timer.Stop()
	w.timer = nil
}

func (w *Watchdog) expire() {
	w.lock.Lock()
	if !w.running {
		w.lock.Unlock()
		return
	}
	w.running = false
	w.timer = nil
	w.lock.Unlock()

	w.onExpire()
}

// BindWatchdog arms w while the session holds a user and tears it down when
// the user goes away or the returned unbind function runs.
func BindWatchdog(sess *sessions.Store, w *Watchdog) func() {
	apply := func(snap sessions.Snapshot) {
		if snap.IsAuthenticated {
			w.Start()
		} else {
			w.Stop()
		}
	}
	apply(sess.Snapshot())
	unsubscribe := sess.Subscribe(apply)

	return func() {
		unsubscribe()
		w.Stop()
	}
}
