package model

import "time"

func ResolveTarget(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	target := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if target.Before(now) {
		target = time.Date(y, m, d+1, hour, minute, 0, 0, loc)
	}
	return target
}
