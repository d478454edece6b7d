package timer

import (
	"sync"
	"time"
)

const (
	// DefaultSeconds - время на один вопрос
	DefaultSeconds = 40
	// DefaultInterval - шаг обратного отсчета
	DefaultInterval = time.Second
)

// Config описывает параметры таймера
type Config struct {
	Seconds  int
	Interval time.Duration
	Clock    Clock
	// OnTick вызывается после каждого шага с оставшимся временем
	OnTick func(cd *Countdown, remaining int)
	// OnExpire вызывается ровно один раз, когда отсчет дошел до нуля
	OnExpire func(cd *Countdown)
}

// Timer ведет обратный отсчет для текущего вопроса.
// Одновременно жив не более чем один Countdown: Start отменяет предыдущий.
type Timer struct {
	mu       sync.Mutex
	seconds  int
	interval time.Duration
	clock    Clock
	onTick   func(*Countdown, int)
	onExpire func(*Countdown)
	current  *Countdown
}

// New создает таймер
func New(cfg Config) *Timer {
	if cfg.Seconds <= 0 {
		cfg.Seconds = DefaultSeconds
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	return &Timer{
		seconds:  cfg.Seconds,
		interval: cfg.Interval,
		clock:    cfg.Clock,
		onTick:   cfg.OnTick,
		onExpire: cfg.OnExpire,
	}
}

// Seconds возвращает начальное значение отсчета
func (t *Timer) Seconds() int {
	return t.seconds
}

// Start запускает новый отсчет для вопроса, отменяя предыдущий
func (t *Timer) Start(question int) *Countdown {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Cancel()
	}

	cd := &Countdown{
		question:  question,
		remaining: t.seconds,
		done:      make(chan struct{}),
	}
	t.current = cd

	ticker := t.clock.NewTicker(t.interval)
	go t.run(cd, ticker)

	return cd
}

// Stop останавливает текущий отсчет, не сбрасывая оставшееся время
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Cancel()
	}
}

// Current возвращает последний запущенный отсчет
func (t *Timer) Current() *Countdown {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Remaining возвращает оставшееся время последнего отсчета
func (t *Timer) Remaining() int {
	cd := t.Current()
	if cd == nil {
		return 0
	}
	return cd.Remaining()
}

func (t *Timer) run(cd *Countdown, ticker Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-cd.done:
			return
		case <-ticker.C():
			remaining, expired, ok := cd.tick()
			if !ok {
				return
			}
			if t.onTick != nil {
				t.onTick(cd, remaining)
			}
			if expired {
				if t.onExpire != nil {
					t.onExpire(cd)
				}
				return
			}
		}
	}
}

// Countdown - отменяемый отсчет для одного вопроса
type Countdown struct {
	mu        sync.Mutex
	question  int
	remaining int
	expired   bool
	cancelled bool
	done      chan struct{}
}

// Question возвращает индекс вопроса, к которому привязан отсчет
func (c *Countdown) Question() int {
	return c.question
}

// Remaining возвращает оставшиеся секунды
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired сообщает, дошел ли отсчет до нуля
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Cancelled сообщает, был ли отсчет отменен
func (c *Countdown) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// Cancel останавливает отсчет. Повторные вызовы ничего не делают.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelled {
		return
	}
	c.cancelled = true
	close(c.done)
}

func (c *Countdown) tick() (remaining int, expired bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelled || c.expired {
		return c.remaining, c.expired, false
	}

	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.expired = true
	}
	return c.remaining, c.expired, true
}
