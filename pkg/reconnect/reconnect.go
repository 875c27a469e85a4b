package reconnect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jirwin/qbot/pkg/config"
)

// Policy decides whether a kick is followed by a new session.
type Policy struct {
	Enabled bool
	Delay   time.Duration
}

// NewPolicy converts the static config. A negative delay means no delay.
func NewPolicy(c config.ReconnectOnKick) Policy {
	p := Policy{
		Enabled: c.Enabled,
		Delay:   c.DelayDuration(),
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// Starter establishes a brand new session.
type Starter interface {
	StartNewSession(ctx context.Context) error
}

type StarterFunc func(ctx context.Context) error

func (f StarterFunc) StartNewSession(ctx context.Context) error {
	return f(ctx)
}

// Scheduler runs fn once d has elapsed, without blocking the caller.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

var TimerScheduler Scheduler = timerScheduler{}

type Reconnector struct {
	l         *zap.Logger
	policy    Policy
	starter   Starter
	scheduler Scheduler
	tracker   *Tracker
	ctx       context.Context
}

type Option func(r *Reconnector)

func WithScheduler(s Scheduler) Option {
	return func(r *Reconnector) {
		r.scheduler = s
	}
}

func WithTracker(t *Tracker) Option {
	return func(r *Reconnector) {
		r.tracker = t
	}
}

// WithContext sets the context handed to the starter. Defaults to
// context.Background.
func WithContext(ctx context.Context) Option {
	return func(r *Reconnector) {
		r.ctx = ctx
	}
}

func New(policy Policy, l *zap.Logger, starter Starter, opts ...Option) *Reconnector {
	r := &Reconnector{
		l:         l.Named("reconnect"),
		policy:    policy,
		starter:   starter,
		scheduler: TimerScheduler,
		tracker:   NewTracker(),
		ctx:       context.Background(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Reconnector) Policy() Policy {
	return r.policy
}

func (r *Reconnector) Tracker() *Tracker {
	return r.tracker
}

// AfterKick applies the policy once a kick has been logged. When enabled it
// schedules exactly one StartNewSession call after the policy delay and
// returns immediately. It returns the state the session moved to.
func (r *Reconnector) AfterKick(reason string) State {
	r.tracker.Kicked(reason)

	if !r.policy.Enabled {
		r.tracker.Disconnected()
		return Disconnected
	}

	r.tracker.set(ReconnectPending)
	r.l.Info(fmt.Sprintf("Reconnecting in %dms", r.policy.Delay.Milliseconds()))

	r.scheduler.AfterFunc(r.policy.Delay, r.start)

	return ReconnectPending
}

func (r *Reconnector) start() {
	err := r.starter.StartNewSession(r.ctx)
	if err != nil {
		r.tracker.Disconnected()
		r.l.Error("unable to start new session", zap.Error(err))
	}
}
