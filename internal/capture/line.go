package capture

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrBusy - у распознавателя уже есть активный слушатель
var ErrBusy = errors.New("recognizer already has an active listener")

// LineRecognizer - консольный распознаватель: каждая введенная строка считается
// распознанной фразой. Пока никто не слушает, строки отбрасываются (микрофон выключен).
type LineRecognizer struct {
	mu      sync.Mutex
	handler func(string)
	seq     uint64
}

// NewLineRecognizer создает консольный распознаватель
func NewLineRecognizer() *LineRecognizer {
	return &LineRecognizer{}
}

func (r *LineRecognizer) Subscribe(handler func(text string)) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handler != nil {
		return nil, ErrBusy
	}
	r.seq++
	id := r.seq
	r.handler = handler

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.seq == id {
			r.handler = nil
		}
	}, nil
}

// Feed передает строку активному слушателю. Возвращает false, если слушателя нет.
func (r *LineRecognizer) Feed(text string) bool {
	r.mu.Lock()
	handler := r.handler
	r.mu.Unlock()

	if handler == nil {
		return false
	}
	handler(text)
	return true
}

// Active сообщает, есть ли активный слушатель
func (r *LineRecognizer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler != nil
}
