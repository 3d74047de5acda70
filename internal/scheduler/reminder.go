package scheduler

import (
	"sync"

	"github.com/sandeepkv93/freedom/internal/model"
)

type ReminderRule string

const (
	RuleNone     ReminderRule = ""
	RulePeriodic ReminderRule = "periodic"
	RuleFinal    ReminderRule = "final"
)

type ReminderPolicy struct {
	Interval       int
	FinalThreshold int
}

func DefaultReminderPolicy() ReminderPolicy {
	return PolicyFrom(model.DefaultCountdownConfig())
}

func PolicyFrom(cfg model.CountdownConfig) ReminderPolicy {
	return ReminderPolicy{
		Interval:       cfg.ReminderInterval,
		FinalThreshold: cfg.FinalThreshold,
	}
}

type ReminderDecision struct {
	Fire         bool
	Rule         ReminderRule
	TotalMinutes int
	Watermark    int
}

// Decide applies the periodic rule first and the final-countdown rule second.
// Both key off the same watermark so a given whole minute fires at most once.
func (p ReminderPolicy) Decide(remaining model.RemainingTime, watermark int) ReminderDecision {
	totalMinutes := remaining.TotalMinutes()
	decision := ReminderDecision{TotalMinutes: totalMinutes, Watermark: watermark}
	if totalMinutes <= 0 || totalMinutes == watermark {
		return decision
	}

	switch {
	case p.Interval > 0 && totalMinutes%p.Interval == 0:
		decision.Rule = RulePeriodic
	case totalMinutes <= p.FinalThreshold && remaining.Seconds == 0:
		decision.Rule = RuleFinal
	default:
		return decision
	}
	decision.Fire = true
	decision.Watermark = totalMinutes
	return decision
}

func ShouldAnnounce(remaining model.RemainingTime, watermark int) (bool, int) {
	decision := DefaultReminderPolicy().Decide(remaining, watermark)
	return decision.Fire, decision.Watermark
}

type ReminderScheduler struct {
	mu        sync.Mutex
	policy    ReminderPolicy
	watermark int
}

func NewReminderScheduler(policy ReminderPolicy) *ReminderScheduler {
	return &ReminderScheduler{policy: policy}
}

func (s *ReminderScheduler) Evaluate(remaining model.RemainingTime) ReminderDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	decision := s.policy.Decide(remaining, s.watermark)
	s.watermark = decision.Watermark
	return decision
}

func (s *ReminderScheduler) Watermark() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watermark
}
