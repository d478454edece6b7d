package submission

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"interview-room/internal/api"
	"interview-room/internal/metrics"
	"interview-room/internal/session"
)

var (
	// ErrNoAnswers - отправлять нечего, вызывающий код должен вернуть пользователя назад
	ErrNoAnswers = errors.New("no answers to submit")
	// ErrInFlight - ответы этой сессии уже отправляются
	ErrInFlight = errors.New("submission already in progress")
)

// Scorer - удаленный сервис оценки ответов
type Scorer interface {
	SubmitAnswers(ctx context.Context, interviewID string, answers []api.AnswerPayload) (*api.FeedbackReport, error)
}

// Adapter отправляет ответы завершенной сессии и хранит полученный отчет
type Adapter struct {
	scorer  Scorer
	metrics *metrics.Metrics

	mu       sync.Mutex
	inFlight bool
	report   *api.FeedbackReport
}

// New создает адаптер отправки результатов
func New(scorer Scorer, m *metrics.Metrics) *Adapter {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Adapter{
		scorer:  scorer,
		metrics: m,
	}
}

// Submit отправляет полный список ответов один раз. Повторов при ошибке нет.
func (a *Adapter) Submit(ctx context.Context, interviewID string, answers []session.Answer) (*api.FeedbackReport, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return nil, ErrInFlight
	}
	a.inFlight = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inFlight = false
		a.mu.Unlock()
	}()

	payload := make([]api.AnswerPayload, 0, len(answers))
	for _, answer := range answers {
		payload = append(payload, api.AnswerPayload{
			Question: answer.Question,
			Answer:   answer.Answer,
		})
	}

	logger := log.
		WithField("interview_id", interviewID).
		WithField("answers", len(payload))

	report, err := a.scorer.SubmitAnswers(ctx, interviewID, payload)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("отправка ответов отменена")
		} else {
			logger.WithError(err).Error("ошибка отправки ответов на оценку")
		}
		return nil, errors.Wrap(err, "ошибка отправки ответов")
	}

	a.mu.Lock()
	a.report = report
	a.mu.Unlock()

	a.metrics.IncrementReportsReceived()
	logger.WithField("overall_score", report.OverallScore).Info("отчет получен")
	return report, nil
}

// Report возвращает последний полученный отчет или nil
func (a *Adapter) Report() *api.FeedbackReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.report
}

// Clear забывает отчет перед новой сессией
func (a *Adapter) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.report = nil
}
