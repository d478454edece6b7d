package session

// State представляет состояние контроллера
type State int

const (
	StateAwaitingStart State = iota
	StateInProgress
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateAwaitingStart:
		return "awaiting_start"
	case StateInProgress:
		return "in_progress"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Trigger - причина перехода к следующему вопросу
type Trigger int

const (
	TriggerExpired Trigger = iota
	TriggerSkip
)

func (t Trigger) String() string {
	if t == TriggerExpired {
		return "expired"
	}
	return "skip"
}

// EventKind - тип события для слоя отображения
type EventKind int

const (
	EventQuestionStarted EventKind = iota
	EventTick
	EventTranscriptUpdated
	EventCaptureToggled
	EventAnswerRecorded
	EventSessionEnded
)

// Event описывает изменение состояния сессии
type Event struct {
	Kind       EventKind
	Index      int
	Total      int
	Question   string
	Remaining  int
	Transcript string
	Listening  bool
	Trigger    Trigger
	Answer     Answer
	Handoff    *Handoff
}

// Handoff - ответы, переданные на оценку после завершения сессии
type Handoff struct {
	SessionID   string
	InterviewID string
	Answers     []Answer
	// Completed равен false, если сессия завершена досрочно
	Completed bool
}

// Listener получает события после снятия блокировки контроллера.
// Listener не должен синхронно вызывать методы контроллера.
type Listener func(Event)

// Snapshot - состояние контроллера для отображения
type Snapshot struct {
	State            State
	SessionID        string
	InterviewID      string
	Index            int
	Total            int
	Question         string
	IsLast           bool
	Remaining        int
	Transcript       string
	Listening        bool
	CaptureSupported bool
	Answers          []Answer
}
