package room

import (
	"sync"

	"interview-room/internal/session"
)

// eventQueue - неблокирующая очередь событий контроллера. push вызывается
// из горутин таймера и захвата, drain только из цикла комнаты.
type eventQueue struct {
	mu     sync.Mutex
	events []session.Event
	notify chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{notify: make(chan struct{}, 1)}
}

func (q *eventQueue) push(ev session.Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *eventQueue) drain() []session.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}
