package timer

import (
	"sync"
	"time"
)

// ManualClock - часы, тиками которых управляет вызывающий код (тесты, прогон сценариев)
type ManualClock struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

// NewManualClock создает ручные часы
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	tk := &ManualTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, tk)
	return tk
}

// Last возвращает последний созданный тикер
func (c *ManualClock) Last() *ManualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

// Count возвращает количество созданных тикеров
func (c *ManualClock) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// ManualTicker - тикер без собственного времени
type ManualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *ManualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped сообщает, был ли тикер остановлен владельцем
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick передает один тик. Возвращает false, если за wait его никто не принял.
func (t *ManualTicker) Tick(wait time.Duration) bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(wait):
		return false
	}
}
