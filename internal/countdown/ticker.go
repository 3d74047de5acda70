package countdown

import "time"

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(period time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func NewRealTicker(period time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(period)}
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }

func (r *realTicker) Stop() { r.t.Stop() }
