package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"interview-room/internal/capture"
	"interview-room/internal/metrics"
	"interview-room/internal/timer"
)

var (
	ErrNotInProgress  = errors.New("interview is not in progress")
	ErrAlreadyStarted = errors.New("interview already started")
	ErrNoQuestions    = errors.New("no questions to ask")
)

type options struct {
	clock    timer.Clock
	seconds  int
	listener Listener
	metrics  *metrics.Metrics
	logger   *log.Entry
}

// Option настраивает контроллер
type Option func(*options)

func WithClock(clock timer.Clock) Option {
	return func(o *options) { o.clock = clock }
}

func WithQuestionSeconds(seconds int) Option {
	return func(o *options) { o.seconds = seconds }
}

func WithListener(listener Listener) Option {
	return func(o *options) { o.listener = listener }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(logger *log.Entry) Option {
	return func(o *options) { o.logger = logger }
}

// Controller ведет сессию интервью: AwaitingStart -> InProgress(i) -> Ended.
// Таймер и захват речи принадлежат контроллеру и живут только в InProgress.
type Controller struct {
	mu         sync.Mutex
	dispatchMu sync.Mutex

	state     State
	session   *Session
	timer     *timer.Timer
	countdown *timer.Countdown
	capture   *capture.Capture

	listener Listener
	metrics  *metrics.Metrics
	logger   *log.Entry
}

// New создает контроллер. recognizer == nil означает, что захват речи недоступен.
func New(recognizer capture.Recognizer, opts ...Option) *Controller {
	o := options{
		clock:   timer.RealClock(),
		seconds: timer.DefaultSeconds,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		state:    StateAwaitingStart,
		listener: o.listener,
		metrics:  o.metrics,
		logger:   o.logger,
	}
	if c.metrics == nil {
		c.metrics = metrics.NewMetrics()
	}
	if c.logger == nil {
		c.logger = log.WithField("component", "session")
	}

	c.timer = timer.New(timer.Config{
		Seconds:  o.seconds,
		Clock:    o.clock,
		OnTick:   c.handleTick,
		OnExpire: c.handleExpire,
	})
	c.capture = capture.New(recognizer, c.handleTranscript)
	return c
}

// Begin начинает сессию с полученным набором вопросов
func (c *Controller) Begin(interviewID string, questions []string) error {
	c.mu.Lock()
	if c.state != StateAwaitingStart {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	if len(questions) == 0 {
		c.mu.Unlock()
		return ErrNoQuestions
	}

	c.session = newSession(uuid.NewString(), interviewID, questions)
	c.state = StateInProgress
	c.metrics.IncrementSessionsStarted()
	c.sessionLogger().WithField("questions", len(questions)).Info("сессия начата")

	events := []Event{c.startQuestionLocked()}
	c.unlockAndDispatch(events)
	return nil
}

// ToggleCapture включает или выключает запись ответа. Возвращает новое состояние.
func (c *Controller) ToggleCapture() (bool, error) {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return false, ErrNotInProgress
	}
	if !c.capture.Supported() {
		c.mu.Unlock()
		return false, capture.ErrUnsupported
	}

	var err error
	if c.capture.Listening() {
		err = c.capture.Stop()
	} else {
		err = c.capture.Start()
	}
	if err != nil {
		c.mu.Unlock()
		return false, err
	}

	listening := c.capture.Listening()
	events := []Event{{
		Kind:       EventCaptureToggled,
		Index:      c.session.Index(),
		Total:      c.session.Total(),
		Listening:  listening,
		Transcript: c.capture.Text(),
	}}
	c.unlockAndDispatch(events)
	return listening, nil
}

// Skip записывает текущий ответ (или отметку о пропуске) и переходит дальше
func (c *Controller) Skip() error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return ErrNotInProgress
	}
	events := c.advanceLocked(TriggerSkip)
	c.unlockAndDispatch(events)
	return nil
}

// End завершает сессию досрочно. Ответ на текущий вопрос не записывается.
func (c *Controller) End() error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return ErrNotInProgress
	}
	events := []Event{c.endLocked(false)}
	c.unlockAndDispatch(events)
	return nil
}

// Reset возвращает контроллер в AwaitingStart и освобождает таймер и захват
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	if c.session != nil {
		c.sessionLogger().Debug("сессия сброшена")
	}
	c.session = nil
	c.state = StateAwaitingStart
}

// State возвращает текущее состояние
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CaptureSupported сообщает, доступна ли запись речи
func (c *Controller) CaptureSupported() bool {
	return c.capture.Supported()
}

// Answers возвращает записанные ответы текущей сессии
func (c *Controller) Answers() []Answer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Answers()
}

// Snapshot возвращает состояние для отображения
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:            c.state,
		Transcript:       c.capture.Text(),
		Listening:        c.capture.Listening(),
		CaptureSupported: c.capture.Supported(),
	}
	if c.countdown != nil {
		snap.Remaining = c.countdown.Remaining()
	}
	if c.session != nil {
		snap.SessionID = c.session.ID
		snap.InterviewID = c.session.InterviewID
		snap.Index = c.session.Index()
		snap.Total = c.session.Total()
		snap.Question, _ = c.session.Current()
		snap.IsLast = c.session.IsLast()
		snap.Answers = c.session.Answers()
	}
	return snap
}

func (c *Controller) handleTick(cd *timer.Countdown, remaining int) {
	c.mu.Lock()
	if c.state != StateInProgress || cd != c.countdown {
		c.mu.Unlock()
		return
	}
	events := []Event{{
		Kind:      EventTick,
		Index:     cd.Question(),
		Total:     c.session.Total(),
		Remaining: remaining,
	}}
	c.unlockAndDispatch(events)
}

func (c *Controller) handleExpire(cd *timer.Countdown) {
	c.mu.Lock()
	// истечение отсчета, который уже заменен, игнорируется
	if c.state != StateInProgress || cd != c.countdown {
		c.mu.Unlock()
		c.logger.WithField("question", cd.Question()).Debug("устаревший таймер проигнорирован")
		return
	}
	events := c.advanceLocked(TriggerExpired)
	c.unlockAndDispatch(events)
}

func (c *Controller) handleTranscript(text string) {
	c.mu.Lock()
	if c.state != StateInProgress || c.capture.Text() != text {
		c.mu.Unlock()
		return
	}
	events := []Event{{
		Kind:       EventTranscriptUpdated,
		Index:      c.session.Index(),
		Total:      c.session.Total(),
		Transcript: text,
		Listening:  true,
	}}
	c.unlockAndDispatch(events)
}

func (c *Controller) startQuestionLocked() Event {
	question, _ := c.session.Current()
	c.countdown = c.timer.Start(c.session.Index())
	return Event{
		Kind:      EventQuestionStarted,
		Index:     c.session.Index(),
		Total:     c.session.Total(),
		Question:  question,
		Remaining: c.timer.Seconds(),
	}
}

func (c *Controller) advanceLocked(trigger Trigger) []Event {
	if c.capture.Listening() {
		_ = c.capture.Stop()
	}

	text := strings.TrimSpace(c.capture.Text())
	if text == "" {
		text = SkippedMarker
	}

	index := c.session.Index()
	answer, ok := c.session.record(text)
	if !ok {
		return nil
	}
	c.capture.Reset()
	c.metrics.IncrementAnswers(answer.Skipped())

	c.sessionLogger().
		WithField("question", index).
		WithField("trigger", trigger.String()).
		WithField("skipped", answer.Skipped()).
		Info("ответ записан")

	events := []Event{{
		Kind:    EventAnswerRecorded,
		Index:   index,
		Total:   c.session.Total(),
		Trigger: trigger,
		Answer:  answer,
	}}

	if c.session.Done() {
		return append(events, c.endLocked(true))
	}
	return append(events, c.startQuestionLocked())
}

func (c *Controller) endLocked(completed bool) Event {
	c.releaseLocked()
	c.state = StateEnded
	c.metrics.IncrementSessionsEnded(completed)

	handoff := &Handoff{
		SessionID:   c.session.ID,
		InterviewID: c.session.InterviewID,
		Answers:     c.session.Answers(),
		Completed:   completed,
	}
	c.sessionLogger().
		WithField("answers", len(handoff.Answers)).
		WithField("completed", completed).
		Info("сессия завершена")

	return Event{
		Kind:    EventSessionEnded,
		Index:   c.session.Index(),
		Total:   c.session.Total(),
		Handoff: handoff,
	}
}

func (c *Controller) releaseLocked() {
	c.timer.Stop()
	c.countdown = nil
	if c.capture.Listening() {
		_ = c.capture.Stop()
	}
	c.capture.Reset()
}

// unlockAndDispatch снимает блокировку и передает события в порядке их появления
func (c *Controller) unlockAndDispatch(events []Event) {
	if c.listener == nil || len(events) == 0 {
		c.mu.Unlock()
		return
	}
	c.dispatchMu.Lock()
	c.mu.Unlock()
	defer c.dispatchMu.Unlock()

	for _, ev := range events {
		c.listener(ev)
	}
}

func (c *Controller) sessionLogger() *log.Entry {
	if c.session == nil {
		return c.logger
	}
	return c.logger.
		WithField("session_id", c.session.ID).
		WithField("interview_id", c.session.InterviewID)
}
