package model

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseRunning  Phase = "Running"
	PhaseFinished Phase = "Finished"
)

type CelebrationEffect struct {
	ID        string
	X         float64
	Y         float64
	Color     string
	SpawnedAt time.Time
}

type CountdownConfig struct {
	TargetHour       int
	TargetMinute     int
	ReminderInterval int
	FinalThreshold   int
	BurstSize        int
	Stagger          time.Duration
	EffectLifetime   time.Duration
	TickPeriod       time.Duration
}

func DefaultCountdownConfig() CountdownConfig {
	return CountdownConfig{
		TargetHour:       14,
		TargetMinute:     52,
		ReminderInterval: 15,
		FinalThreshold:   5,
		BurstSize:        20,
		Stagger:          100 * time.Millisecond,
		EffectLifetime:   time.Second,
		TickPeriod:       time.Second,
	}
}

func (c CountdownConfig) TargetLabel() string {
	return fmt.Sprintf("%02d:%02d", c.TargetHour, c.TargetMinute)
}
