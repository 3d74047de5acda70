package countdown

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/scheduler"
)

var (
	ErrAlreadyStarted = errors.New("countdown: clock already started")
	ErrStopped        = errors.New("countdown: clock stopped")
)

type Announcer interface {
	AnnounceRemaining(model.RemainingTime) string
}

type Celebrator interface {
	Celebrate()
}

type Options struct {
	Now       func() time.Time
	NewTicker TickerFactory
	Logger    *zap.Logger
}

type Clock struct {
	mu         sync.Mutex
	config     model.CountdownConfig
	reminders  *scheduler.ReminderScheduler
	announcer  Announcer
	celebrator Celebrator
	now        func() time.Time
	newTicker  TickerFactory
	logger     *zap.Logger

	phase     model.Phase
	remaining model.RemainingTime
	target    time.Time
	ticker    Ticker
	started   bool
	stopped   bool
	stopCh    chan struct{}
	doneCh    chan struct{}

	subMu       sync.Mutex
	subscribers []chan Event
	closed      bool
}

func New(config model.CountdownConfig, announcer Announcer, celebrator Celebrator, opts Options) *Clock {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewRealTicker
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if config.TickPeriod <= 0 {
		config.TickPeriod = time.Second
	}
	return &Clock{
		config:     config,
		reminders:  scheduler.NewReminderScheduler(scheduler.PolicyFrom(config)),
		announcer:  announcer,
		celebrator: celebrator,
		now:        opts.Now,
		newTicker:  opts.NewTicker,
		logger:     opts.Logger,
		phase:      model.PhaseRunning,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	c.logger.Info("countdown started",
		zap.String("target", c.config.TargetLabel()),
		zap.Duration("tick_period", c.config.TickPeriod))

	if c.Tick() == model.PhaseFinished {
		close(c.doneCh)
		return nil
	}

	ticker := c.newTicker(c.config.TickPeriod)
	c.mu.Lock()
	c.ticker = ticker
	c.mu.Unlock()

	go c.loop(ctx, ticker)
	return nil
}

func (c *Clock) loop(ctx context.Context, ticker Ticker) {
	defer close(c.doneCh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("countdown loop cancelled", zap.Error(ctx.Err()))
			return
		case <-c.stopCh:
			return
		case <-ticker.C():
			if c.Tick() == model.PhaseFinished {
				return
			}
		}
	}
}

func (c *Clock) Done() <-chan struct{} {
	return c.doneCh
}

func (c *Clock) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	started := c.started
	close(c.stopCh)
	c.mu.Unlock()

	if started {
		<-c.doneCh
	}

	c.subMu.Lock()
	subscribers := c.subscribers
	c.subscribers = nil
	c.closed = true
	c.subMu.Unlock()
	for _, ch := range subscribers {
		close(ch)
	}
	c.logger.Info("countdown stopped")
}

func (c *Clock) Tick() model.Phase {
	c.mu.Lock()
	if c.stopped || c.phase == model.PhaseFinished {
		phase := c.phase
		c.mu.Unlock()
		return phase
	}

	now := c.now()
	target := model.ResolveTarget(now, c.config.TargetHour, c.config.TargetMinute)
	if !c.target.IsZero() && target.After(c.target) && !now.Before(c.target) {
		// The previous target passed between ticks; keep it so the crossing
		// is seen as zero instead of a fresh day.
		target = c.target
	}
	remaining := model.ComputeRemaining(target, now)
	c.target = target
	c.remaining = remaining

	if remaining.IsZero() {
		c.phase = model.PhaseFinished
		ticker := c.ticker
		c.mu.Unlock()

		if ticker != nil {
			ticker.Stop()
		}
		c.logger.Info("countdown finished", zap.Time("target", target))
		c.emit(Event{Type: EventTick, Remaining: remaining, Phase: model.PhaseFinished, Target: target, At: now})
		c.celebrate()
		c.emit(Event{Type: EventFinished, Remaining: remaining, Phase: model.PhaseFinished, Target: target, At: now})
		return model.PhaseFinished
	}

	decision := c.reminders.Evaluate(remaining)
	c.mu.Unlock()

	c.emit(Event{Type: EventTick, Remaining: remaining, Phase: model.PhaseRunning, Target: target, At: now})
	if decision.Fire {
		message := c.announce(remaining)
		c.logger.Info("reminder fired",
			zap.String("rule", string(decision.Rule)),
			zap.Int("minutes", decision.TotalMinutes))
		c.emit(Event{
			Type:      EventReminder,
			Remaining: remaining,
			Phase:     model.PhaseRunning,
			Target:    target,
			Message:   message,
			Rule:      decision.Rule,
			At:        now,
		})
	}
	return model.PhaseRunning
}

func (c *Clock) TestVoice() string {
	c.mu.Lock()
	remaining, phase := c.remaining, c.phase
	c.mu.Unlock()
	if phase == model.PhaseFinished {
		return ""
	}
	return c.announce(remaining)
}

func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Remaining: c.remaining,
		Phase:     c.phase,
		Target:    c.target,
		Watermark: c.reminders.Watermark(),
	}
}

func (c *Clock) Phase() model.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Clock) Config() model.CountdownConfig {
	return c.config
}

func (c *Clock) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

func (c *Clock) emit(ev Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			c.logger.Debug("countdown event dropped", zap.String("type", string(ev.Type)))
		}
	}
}

func (c *Clock) announce(remaining model.RemainingTime) (message string) {
	if c.announcer == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("announcer panicked", zap.Any("panic", r))
		}
	}()
	return c.announcer.AnnounceRemaining(remaining)
}

func (c *Clock) celebrate() {
	if c.celebrator == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("celebrator panicked", zap.Any("panic", r))
		}
	}()
	c.celebrator.Celebrate()
}
