package timer

import "time"

// Clock создает тикеры для обратного отсчета
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker - минимальная обертка над time.Ticker
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realClock struct{}

type realTicker struct {
	t *time.Ticker
}

// RealClock возвращает часы на основе time.Ticker
func RealClock() Clock {
	return realClock{}
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}
