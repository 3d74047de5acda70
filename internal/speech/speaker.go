package speech

import (
	"errors"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const speechBacklog = 8

var (
	ErrNoBackend = errors.New("speech: no speech backend available")
	ErrQueueFull = errors.New("speech: queue full")
	ErrClosed    = errors.New("speech: speaker closed")
)

type Utterance struct {
	Text   string
	Rate   float64
	Pitch  float64
	Volume float64
}

type Speaker interface {
	Speak(Utterance) error
}

type NoopSpeaker struct{}

func (NoopSpeaker) Speak(Utterance) error { return nil }

type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendEspeakNG Backend = "espeak-ng"
	BackendEspeak   Backend = "espeak"
	BackendSpdSay   Backend = "spd-say"
	BackendSay      Backend = "say"
	BackendNone     Backend = "none"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendAuto, BackendEspeakNG, BackendEspeak, BackendSpdSay, BackendSay, BackendNone:
		return true
	default:
		return false
	}
}

func candidates(goos string) []Backend {
	switch goos {
	case "darwin":
		return []Backend{BackendSay}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []Backend{BackendEspeakNG, BackendEspeak, BackendSpdSay}
	default:
		return nil
	}
}

func Detect(preferred Backend, goos string, lookPath func(string) (string, error)) (Backend, string, error) {
	if preferred == BackendNone {
		return BackendNone, "", ErrNoBackend
	}
	if !preferred.IsValid() {
		return BackendNone, "", fmt.Errorf("%w: unknown backend %q", ErrNoBackend, preferred)
	}

	probe := []Backend{preferred}
	if preferred == BackendAuto {
		probe = candidates(goos)
	}
	for _, backend := range probe {
		path, err := lookPath(string(backend))
		if err == nil && path != "" {
			return backend, path, nil
		}
	}
	return BackendNone, "", ErrNoBackend
}

func NewSpeaker(preferred Backend, logger *zap.Logger) Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend, path, err := Detect(preferred, runtime.GOOS, exec.LookPath)
	if err != nil {
		logger.Info("speech disabled", zap.String("preferred", string(preferred)), zap.Error(err))
		return NoopSpeaker{}
	}
	logger.Info("speech backend selected", zap.String("backend", string(backend)), zap.String("path", path))
	return newExecSpeaker(backend, path, exec.Command, logger)
}

// ExecSpeaker plays one utterance at a time; Speak only queues.
type ExecSpeaker struct {
	backend Backend
	path    string
	command func(name string, args ...string) *exec.Cmd
	logger  *zap.Logger

	mu     sync.Mutex
	queue  chan Utterance
	closed bool
	doneCh chan struct{}
}

func newExecSpeaker(backend Backend, path string, command func(string, ...string) *exec.Cmd, logger *zap.Logger) *ExecSpeaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExecSpeaker{
		backend: backend,
		path:    path,
		command: command,
		logger:  logger,
		queue:   make(chan Utterance, speechBacklog),
		doneCh:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *ExecSpeaker) Backend() Backend {
	return s.backend
}

func (s *ExecSpeaker) Speak(u Utterance) error {
	if strings.TrimSpace(u.Text) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.queue <- u:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *ExecSpeaker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	<-s.doneCh
	return nil
}

func (s *ExecSpeaker) run() {
	defer close(s.doneCh)
	for u := range s.queue {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			continue
		}
		if err := s.play(u); err != nil {
			s.logger.Warn("speech failed", zap.String("backend", string(s.backend)), zap.Error(err))
		}
	}
}

func (s *ExecSpeaker) play(u Utterance) error {
	cmd := s.command(s.path, Args(s.backend, u)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.backend, err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait %s: %w", s.backend, err)
	}
	return nil
}

func Args(backend Backend, u Utterance) []string {
	switch backend {
	case BackendEspeak, BackendEspeakNG:
		return []string{
			"-s", itoa(clamp(175*u.Rate, 80, 450)),
			"-p", itoa(clamp(50*u.Pitch, 0, 99)),
			"-a", itoa(clamp(100*u.Volume, 0, 200)),
			u.Text,
		}
	case BackendSpdSay:
		return []string{
			"-r", itoa(clamp((u.Rate-1)*100, -100, 100)),
			"-p", itoa(clamp((u.Pitch-1)*100, -100, 100)),
			"-i", itoa(clamp((u.Volume-1)*100, -100, 100)),
			u.Text,
		}
	case BackendSay:
		// say has no pitch or volume flags.
		return []string{"-r", itoa(clamp(175*u.Rate, 90, 720)), u.Text}
	default:
		return []string{u.Text}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func itoa(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
