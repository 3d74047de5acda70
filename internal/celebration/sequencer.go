package celebration

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/scheduler"
)

var DefaultPalette = []string{"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4", "#ffeaa7", "#fd79a8"}

type Config struct {
	BurstSize int
	Stagger   time.Duration
	Lifetime  time.Duration
	Palette   []string
}

func DefaultConfig() Config {
	return ConfigFrom(model.DefaultCountdownConfig())
}

func ConfigFrom(cfg model.CountdownConfig) Config {
	return Config{
		BurstSize: cfg.BurstSize,
		Stagger:   cfg.Stagger,
		Lifetime:  cfg.EffectLifetime,
		Palette:   DefaultPalette,
	}
}

type CompletionAnnouncer interface {
	AnnounceCompletion()
}

type Frame struct {
	Effects []model.CelebrationEffect
	Done    bool
}

type Sequencer struct {
	mu          sync.Mutex
	config      Config
	engine      *scheduler.Engine
	announcer   CompletionAnnouncer
	logger      *zap.Logger
	rng         *rand.Rand
	now         func() time.Time
	started     bool
	stopped     bool
	done        bool
	spawned     int
	effects     []model.CelebrationEffect
	subscribers []chan Frame
	consumerCh  chan struct{}
}

func New(config Config, engine *scheduler.Engine, announcer CompletionAnnouncer, logger *zap.Logger) *Sequencer {
	if config.BurstSize < 0 {
		config.BurstSize = 0
	}
	if len(config.Palette) == 0 {
		config.Palette = DefaultPalette
	}
	if engine == nil {
		engine = scheduler.NewEngine(config.BurstSize*2, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		config:     config,
		engine:     engine,
		announcer:  announcer,
		logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		consumerCh: make(chan struct{}),
	}
}

func (s *Sequencer) Subscribe(buffer int) <-chan Frame {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Frame, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Sequencer) Celebrate() {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.engine.Start()
	go s.consume()

	base := s.now()
	for i := 0; i < s.config.BurstSize; i++ {
		_, err := s.engine.Schedule(scheduler.TimedEvent{
			Kind:      scheduler.EventSpawn,
			Index:     i,
			TriggerAt: base.Add(time.Duration(i) * s.config.Stagger),
		})
		if err != nil {
			s.logger.Debug("spawn not scheduled", zap.Int("index", i), zap.Error(err))
			break
		}
	}
	s.logger.Info("celebration started", zap.Int("burst", s.config.BurstSize))

	if s.config.BurstSize == 0 {
		s.mu.Lock()
		s.finishLocked()
		s.mu.Unlock()
	}
	if s.announcer != nil {
		s.announcer.AnnounceCompletion()
	}
}

func (s *Sequencer) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Sequencer) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Sequencer) Effects() []model.CelebrationEffect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CelebrationEffect(nil), s.effects...)
}

func (s *Sequencer) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	s.mu.Unlock()

	s.engine.Stop()
	if started {
		<-s.consumerCh
	}

	s.mu.Lock()
	subscribers := s.subscribers
	s.subscribers = nil
	s.effects = nil
	s.mu.Unlock()
	for _, ch := range subscribers {
		close(ch)
	}
}

func (s *Sequencer) consume() {
	defer close(s.consumerCh)
	for ev := range s.engine.C() {
		switch ev.Kind {
		case scheduler.EventSpawn:
			s.spawn(ev)
		case scheduler.EventExpire:
			s.expire(ev)
		}
	}
}

func (s *Sequencer) spawn(ev scheduler.TimedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	effect := model.CelebrationEffect{
		ID:        uuid.NewString(),
		X:         s.rng.Float64() * 100,
		Y:         s.rng.Float64() * 100,
		Color:     s.config.Palette[s.rng.Intn(len(s.config.Palette))],
		SpawnedAt: s.now(),
	}
	s.effects = append(s.effects, effect)
	s.spawned++

	_, err := s.engine.Schedule(scheduler.TimedEvent{
		Kind:      scheduler.EventExpire,
		Index:     ev.Index,
		EffectID:  effect.ID,
		TriggerAt: effect.SpawnedAt.Add(s.config.Lifetime),
	})
	if err != nil {
		s.logger.Debug("expiry not scheduled", zap.String("effect", effect.ID), zap.Error(err))
	}
	s.publishLocked()
}

func (s *Sequencer) expire(ev scheduler.TimedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	for i, effect := range s.effects {
		if effect.ID == ev.EffectID {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			break
		}
	}
	if s.spawned == s.config.BurstSize && len(s.effects) == 0 {
		s.finishLocked()
		return
	}
	s.publishLocked()
}

func (s *Sequencer) finishLocked() {
	s.done = true
	s.logger.Info("celebration finished", zap.Int("spawned", s.spawned))
	s.publishLocked()
}

func (s *Sequencer) publishLocked() {
	frame := Frame{
		Effects: append([]model.CelebrationEffect(nil), s.effects...),
		Done:    s.done,
	}
	for _, ch := range s.subscribers {
		select {
		case ch <- frame:
		default:
		}
	}
}
