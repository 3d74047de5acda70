package countdown

import (
	"time"

	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/scheduler"
)

type EventType string

const (
	EventTick     EventType = "tick"
	EventReminder EventType = "reminder"
	EventFinished EventType = "finished"
)

type Event struct {
	Type      EventType
	Remaining model.RemainingTime
	Phase     model.Phase
	Target    time.Time
	Message   string
	Rule      scheduler.ReminderRule
	At        time.Time
}

type Snapshot struct {
	Remaining model.RemainingTime
	Phase     model.Phase
	Target    time.Time
	Watermark int
}
