package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/scheduler"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func formatClock(r model.RemainingTime) string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// Window edges follow ReminderPolicy.Decide: periodic mark k fires as soon as
// TotalMinutes reaches k, final mark n fires at n:00.
func reminderWindow(r model.RemainingTime, policy scheduler.ReminderPolicy) (float64, int) {
	ms := r.TotalMilliseconds
	if ms <= 0 {
		return 1, 0
	}
	minutes := r.TotalMinutes()

	next, nextEdge := 0, int64(0)
	for c := minutes; c >= 1; c-- {
		if edge, ok := reminderEdge(c, policy); ok && edge <= ms {
			next, nextEdge = c, edge
			break
		}
	}

	start := ms
	limit := minutes + policy.Interval + 1
	for c := next + 1; c <= limit; c++ {
		if edge, ok := reminderEdge(c, policy); ok && edge > ms {
			start = edge
			break
		}
	}
	if start <= nextEdge {
		return 0, next
	}
	return float64(start-ms) / float64(start-nextEdge), next
}

func reminderEdge(mark int, policy scheduler.ReminderPolicy) (int64, bool) {
	switch {
	case policy.Interval > 0 && mark%policy.Interval == 0:
		return int64(mark+1) * 60_000, true
	case mark <= policy.FinalThreshold:
		return int64(mark)*60_000 + 1_000, true
	default:
		return 0, false
	}
}
