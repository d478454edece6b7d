package capture

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnsupported возвращается, когда платформа не умеет распознавать речь
var ErrUnsupported = errors.New("speech recognition is not supported")

// Recognizer - платформенный источник распознанного текста.
// Обработчик вызывается на каждый распознанный фрагмент, пока подписка активна.
type Recognizer interface {
	Subscribe(handler func(text string)) (unsubscribe func(), err error)
}

// Capture накапливает распознанный текст между вызовами Start и Stop.
// Буфер очищается только явным Reset.
type Capture struct {
	mu          sync.Mutex
	recognizer  Recognizer
	onUpdate    func(text string)
	listening   bool
	text        string
	generation  uint64
	unsubscribe func()
}

// New создает захват поверх распознавателя. nil означает отсутствие возможности.
func New(recognizer Recognizer, onUpdate func(text string)) *Capture {
	return &Capture{
		recognizer: recognizer,
		onUpdate:   onUpdate,
	}
}

// Supported сообщает, доступно ли распознавание речи
func (c *Capture) Supported() bool {
	return c.recognizer != nil
}

// Start начинает захват. Повторный вызов во время прослушивания ничего не делает.
func (c *Capture) Start() error {
	if !c.Supported() {
		return ErrUnsupported
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listening {
		return nil
	}

	c.generation++
	generation := c.generation
	unsubscribe, err := c.recognizer.Subscribe(func(text string) {
		c.receive(generation, text)
	})
	if err != nil {
		return errors.Wrap(err, "ошибка подписки на распознавание")
	}

	c.unsubscribe = unsubscribe
	c.listening = true
	return nil
}

// Stop завершает захват. Без активного прослушивания ничего не делает.
func (c *Capture) Stop() error {
	if !c.Supported() {
		return ErrUnsupported
	}

	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return nil
	}
	c.listening = false
	c.generation++
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return nil
}

// Reset очищает накопленный текст
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = ""
}

// Text возвращает накопленный текст
func (c *Capture) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Listening сообщает, идет ли сейчас захват
func (c *Capture) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

func (c *Capture) receive(generation uint64, fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return
	}

	c.mu.Lock()
	// фрагменты от завершенной подписки отбрасываются
	if !c.listening || generation != c.generation {
		c.mu.Unlock()
		return
	}
	if c.text == "" {
		c.text = fragment
	} else {
		c.text = c.text + " " + fragment
	}
	text := c.text
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(text)
	}
}
