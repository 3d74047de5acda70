package speech

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/model"
)

const CompletionMessage = "Get your things, and get out!"

var (
	ReminderVoice   = Utterance{Rate: 0.9, Pitch: 1.1, Volume: 0.8}
	CompletionVoice = Utterance{Rate: 1.2, Pitch: 1.3, Volume: 1.0}
)

func ReminderMessage(r model.RemainingTime) string {
	switch {
	case r.Hours > 0:
		return fmt.Sprintf("Time remaining to leave the office: %d hours and %d minutes", r.Hours, r.Minutes)
	case r.Minutes > 0:
		return fmt.Sprintf("Time remaining to leave the office: %d minutes and %d seconds", r.Minutes, r.Seconds)
	default:
		return fmt.Sprintf("Only %d seconds left!", r.Seconds)
	}
}

type Announcer struct {
	mu      sync.Mutex
	speaker Speaker
	muted   bool
	logger  *zap.Logger
}

func NewAnnouncer(speaker Speaker, logger *zap.Logger) *Announcer {
	if speaker == nil {
		speaker = NoopSpeaker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Announcer{speaker: speaker, logger: logger}
}

func (a *Announcer) Announce(message string, rate, pitch, volume float64) {
	a.mu.Lock()
	speaker, muted := a.speaker, a.muted
	a.mu.Unlock()
	if muted {
		a.logger.Debug("announcement muted", zap.String("message", message))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("speech backend panicked", zap.Any("panic", r), zap.String("message", message))
		}
	}()
	err := speaker.Speak(Utterance{Text: message, Rate: rate, Pitch: pitch, Volume: volume})
	if err != nil {
		a.logger.Warn("speech failed", zap.String("message", message), zap.Error(err))
		return
	}
	a.logger.Debug("announced", zap.String("message", message))
}

func (a *Announcer) AnnounceRemaining(r model.RemainingTime) string {
	message := ReminderMessage(r)
	a.Announce(message, ReminderVoice.Rate, ReminderVoice.Pitch, ReminderVoice.Volume)
	return message
}

func (a *Announcer) AnnounceCompletion() {
	a.Announce(CompletionMessage, CompletionVoice.Rate, CompletionVoice.Pitch, CompletionVoice.Volume)
}

func (a *Announcer) SetMuted(muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.muted = muted
}

func (a *Announcer) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}
