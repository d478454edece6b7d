package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"interview-room/internal/metrics"
)

// DefaultTimeout - время ожидания ответа сервиса
const DefaultTimeout = 30 * time.Second

const (
	generateQuestionsPath = "/interview/generate-questions"
	submitAnswersPath     = "/interview/submit-answers"
	interviewsPath        = "/interview"

	opGenerateQuestions = "generate questions"
	opSubmitAnswers     = "submit answers"
	opListInterviews    = "list interviews"
)

// Client - клиент удаленного сервиса интервью
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	metrics *metrics.Metrics
}

// Option настраивает клиент
type Option func(*Client)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New создает клиент сервиса интервью
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client.Timeout = timeout
	return c
}

// GenerateQuestions запрашивает вопросы интервью по тексту резюме
func (c *Client) GenerateQuestions(ctx context.Context, resumeText, userID string) (*QuestionSet, error) {
	request := GenerateQuestionsRequest{
		ResumeText: resumeText,
		UserID:     userID,
	}
	resp := QuestionSet{}
	if err := c.do(ctx, opGenerateQuestions, http.MethodPost, c.baseURL+generateQuestionsPath, request, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAnswers отправляет ответы на оценку и возвращает отчет
func (c *Client) SubmitAnswers(ctx context.Context, interviewID string, answers []AnswerPayload) (*FeedbackReport, error) {
	request := SubmitAnswersRequest{
		InterviewID: interviewID,
		Answers:     answers,
	}
	resp := FeedbackReport{}
	if err := c.do(ctx, opSubmitAnswers, http.MethodPost, c.baseURL+submitAnswersPath, request, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListInterviews возвращает историю интервью пользователя, новые первыми
func (c *Client) ListInterviews(ctx context.Context, userID string) ([]InterviewRecord, error) {
	uri := c.baseURL + interviewsPath + "?" + url.Values{"userId": {userID}}.Encode()
	resp := []InterviewRecord{}
	if err := c.do(ctx, opListInterviews, http.MethodGet, uri, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, op, method, uri string, request, resp interface{}) (err error) {
	defer func() {
		if c.metrics != nil {
			c.metrics.IncrementAPICall(err == nil)
		}
	}()

	var body io.Reader
	if request != nil {
		data, err := json.Marshal(request)
		if err != nil {
			return errors.Wrap(err, "ошибка сериализации запроса")
		}
		body = bytes.NewReader(data)
	}

	requestID := uuid.NewString()
	logger := log.
		WithField("external_request", uri).
		WithField("request_id", requestID)

	r, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return errors.Wrap(err, "ошибка создания запроса")
	}
	if request != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	r.Header.Set("Accept", "application/json")
	r.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	response, err := c.client.Do(r)
	if err != nil {
		return c.transportError(ctx, logger, op, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return c.transportError(ctx, logger, op, err)
	}

	logger = logger.
		WithField("status", response.StatusCode).
		WithField("elapsed", time.Since(started).String())

	if response.StatusCode < 200 || response.StatusCode > 299 {
		logger.WithField("response_body", string(responseBody)).Error("сервис вернул ошибку")
		return &ServiceError{
			Op:      op,
			Status:  response.StatusCode,
			Message: errorMessage(responseBody),
		}
	}

	if resp != nil {
		if err := json.Unmarshal(responseBody, resp); err != nil {
			logger.WithError(err).WithField("response_body", string(responseBody)).Error("ошибка десериализации ответа")
			return &ServiceError{Op: op, Status: response.StatusCode}
		}
	}
	logger.Debug("запрос выполнен")
	return nil
}

func (c *Client) transportError(ctx context.Context, logger *log.Entry, op string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Debug("запрос отменен")
		return errors.Wrap(ctx.Err(), op)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		logger.WithError(err).Warn("превышено время ожидания ответа")
		return &TimeoutError{Op: op, Timeout: c.timeout, Err: err}
	}

	logger.WithError(err).Error("ошибка отправки запроса")
	return &NetworkError{Op: op, Err: err}
}

func errorMessage(body []byte) string {
	errBody := ErrorBody{}
	if err := json.Unmarshal(body, &errBody); err != nil {
		return ""
	}
	if errBody.Message != "" {
		return errBody.Message
	}
	return errBody.Error
}
