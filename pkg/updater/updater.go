// Package updater runs a background update-check loop and exposes a manual
// trigger, standing in for the service-worker style updater a hosted panel
// would register.
package updater

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is used when no interval option is supplied.
const DefaultInterval = 30 * time.Minute

// CheckFunc performs one update check and reports its outcome.
type CheckFunc func(ctx context.Context) (string, error)

// Status describes the most recent check.
type Status struct {
	LastCheck time.Time
	Result    string
	Err       error
	Checks    int
}

// Option configures an Updater.
type Option func(*Updater)

// WithInterval overrides the background check cadence. Non-positive values
// are ignored.
func WithInterval(interval time.Duration) Option {
	return func(u *Updater) {
		if interval > 0 {
			u.interval = interval
		}
	}
}

// WithLogger attaches a logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(u *Updater) {
		if log != nil {
			u.log = log
		}
	}
}

// Updater drives periodic and on-demand update checks.
type Updater struct {
	check    CheckFunc
	interval time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	status Status

	trigger chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New constructs an Updater around the supplied check function. A nil check
// is replaced with a no-op reporting "no update mechanism registered".
func New(check CheckFunc, options ...Option) *Updater {
	if check == nil {
		check = func(context.Context) (string, error) {
			return "no update mechanism registered", nil
		}
	}
	u := &Updater{
		check:    check,
		interval: DefaultInterval,
		log:      zap.NewNop(),
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(u)
	}
	return u
}

// Start launches the background loop. It returns immediately; the loop stops
// when ctx is cancelled or Stop is called.
func (u *Updater) Start(ctx context.Context) {
	go u.run(ctx)
}

// Stop terminates the background loop. Safe to call more than once.
func (u *Updater) Stop() {
	u.once.Do(func() { close(u.done) })
}

// Trigger requests an immediate check. Returns false when a trigger is
// already pending.
func (u *Updater) Trigger() bool {
	select {
	case u.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Status returns a snapshot of the latest check outcome.
func (u *Updater) Status() Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// CheckNow runs one check synchronously and records the outcome.
func (u *Updater) CheckNow(ctx context.Context) Status {
	result, err := u.check(ctx)

	u.mu.Lock()
	u.status = Status{
		LastCheck: time.Now(),
		Result:    result,
		Err:       err,
		Checks:    u.status.Checks + 1,
	}
	status := u.status
	u.mu.Unlock()

	if err != nil {
		u.log.Warn("update check failed", zap.Error(err))
	} else {
		u.log.Info("update check complete", zap.String("result", result))
	}
	return status
}

func (u *Updater) run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-u.done:
			return
		case <-ticker.C:
			u.CheckNow(ctx)
		case <-u.trigger:
			u.CheckNow(ctx)
		}
	}
}
