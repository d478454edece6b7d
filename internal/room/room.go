package room

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"interview-room/internal/api"
	"interview-room/internal/capture"
	"interview-room/internal/metrics"
	"interview-room/internal/session"
	"interview-room/internal/submission"
	"interview-room/internal/timer"
)

// View - текущий экран комнаты
type View int

const (
	ViewDashboard View = iota
	ViewInterview
	ViewFeedback
)

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewInterview:
		return "interview"
	case ViewFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// QuestionService выдает вопросы интервью по резюме
type QuestionService interface {
	GenerateQuestions(ctx context.Context, resumeText, userID string) (*api.QuestionSet, error)
}

// HistoryService отдает прошлые интервью пользователя, новые первыми
type HistoryService interface {
	ListInterviews(ctx context.Context, userID string) ([]api.InterviewRecord, error)
}

// Config - зависимости комнаты
type Config struct {
	Out       io.Writer
	Questions QuestionService
	Scorer    submission.Scorer
	// History == nil отключает команду /history
	History HistoryService
	// Recognizer == nil означает, что запись речи недоступна
	Recognizer      *capture.LineRecognizer
	Clock           timer.Clock
	QuestionSeconds int
	UserID          string
	Metrics         *metrics.Metrics
	Logger          *log.Entry
}

var errQuit = errors.New("quit")

// Room - консольная комната интервью: дашборд, интервью с таймером и отчет
type Room struct {
	out        io.Writer
	questions  QuestionService
	historian  HistoryService
	recognizer *capture.LineRecognizer
	controller *session.Controller
	submitter  *submission.Adapter
	events     *eventQueue
	metrics    *metrics.Metrics
	logger     *log.Entry

	view    View
	resume  string
	userID  string
	history []api.InterviewRecord
}

// New создает комнату
func New(cfg Config) *Room {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.WithField("component", "room")
	}
	if cfg.Clock == nil {
		cfg.Clock = timer.RealClock()
	}

	r := &Room{
		out:        cfg.Out,
		questions:  cfg.Questions,
		historian:  cfg.History,
		recognizer: cfg.Recognizer,
		submitter:  submission.New(cfg.Scorer, cfg.Metrics),
		events:     newEventQueue(),
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		userID:     cfg.UserID,
	}

	// указатель nil нельзя передавать как интерфейс: контроллер увидит не-nil распознаватель
	var rec capture.Recognizer
	if cfg.Recognizer != nil {
		rec = cfg.Recognizer
	}
	r.controller = session.New(rec,
		session.WithClock(cfg.Clock),
		session.WithQuestionSeconds(cfg.QuestionSeconds),
		session.WithListener(r.events.push),
		session.WithMetrics(cfg.Metrics),
		session.WithLogger(cfg.Logger.WithField("component", "session")),
	)
	return r
}

// View возвращает текущий экран
func (r *Room) View() View {
	return r.view
}

// Run читает команды из in до /quit, конца ввода или отмены ctx.
// При выходе таймер и запись речи останавливаются.
func (r *Room) Run(ctx context.Context, in io.Reader) error {
	defer r.teardown()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	r.printf("%s\n", banner)
	r.renderDashboard()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.events.notify:
			r.Drain(ctx)
		case line, ok := <-lines:
			if !ok {
				r.Drain(ctx)
				select {
				case err := <-scanErr:
					return errors.Wrap(err, "ошибка чтения ввода")
				default:
					return nil
				}
			}
			err := r.Handle(ctx, line)
			r.Drain(ctx)
			if errors.Is(err, errQuit) {
				return nil
			}
		}
	}
}

// Handle обрабатывает одну строку ввода
func (r *Room) Handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if r.view == ViewFeedback {
		r.view = ViewDashboard
	}

	if r.view == ViewInterview {
		return r.handleInterview(ctx, line)
	}
	return r.handleDashboard(ctx, line)
}

// Drain отображает накопленные события контроллера
func (r *Room) Drain(ctx context.Context) {
	for {
		events := r.events.drain()
		if len(events) == 0 {
			return
		}
		for _, ev := range events {
			r.handleEvent(ctx, ev)
		}
	}
}

func (r *Room) handleEvent(ctx context.Context, ev session.Event) {
	switch ev.Kind {
	case session.EventQuestionStarted:
		r.view = ViewInterview
		r.renderQuestion(ev)
	case session.EventTick:
		r.renderCountdown(ev.Remaining)
	case session.EventTranscriptUpdated:
		r.printf("Transcript: %s\n", ev.Transcript)
	case session.EventCaptureToggled:
		r.renderCapture(ev)
	case session.EventAnswerRecorded:
		r.renderAnswer(ev)
	case session.EventSessionEnded:
		r.finish(ctx, ev.Handoff)
	}
}

// finish передает ответы на оценку и возвращает пользователя на дашборд
func (r *Room) finish(ctx context.Context, handoff *session.Handoff) {
	defer r.controller.Reset()

	if handoff == nil || len(handoff.Answers) == 0 {
		r.view = ViewDashboard
		r.printf("No answers were recorded, so there is nothing to score. Back to the dashboard.\n")
		return
	}

	r.printf("Interview finished. Submitting %d answers for feedback...\n", len(handoff.Answers))
	report, err := r.submitter.Submit(ctx, handoff.InterviewID, handoff.Answers)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		// комната закрывается, отображать нечего
		return
	}
	if err != nil {
		r.view = ViewDashboard
		r.printf("Error: %s\n", api.UserMessage(err))
		r.printf("Back to the dashboard.\n")
		return
	}

	r.view = ViewFeedback
	r.renderReport(report)
}

func (r *Room) teardown() {
	r.controller.Reset()
	r.events.drain()
}
