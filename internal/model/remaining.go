package model

import "time"

const (
	millisPerSecond = int64(1000)
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
)

type RemainingTime struct {
	Hours             int
	Minutes           int
	Seconds           int
	TotalMilliseconds int64
}

func ComputeRemaining(target, now time.Time) RemainingTime {
	total := target.Sub(now).Milliseconds()
	if total <= 0 {
		return RemainingTime{}
	}
	return RemainingTime{
		Hours:             int(total / millisPerHour),
		Minutes:           int((total % millisPerHour) / millisPerMinute),
		Seconds:           int((total % millisPerMinute) / millisPerSecond),
		TotalMilliseconds: total,
	}
}

func (r RemainingTime) TotalMinutes() int {
	return int(r.TotalMilliseconds / millisPerMinute)
}

func (r RemainingTime) Duration() time.Duration {
	return time.Duration(r.TotalMilliseconds) * time.Millisecond
}

func (r RemainingTime) IsZero() bool {
	return r.TotalMilliseconds <= 0
}
