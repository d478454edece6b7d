package stubapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"interview-room/internal/api"
	"interview-room/internal/config"
	"interview-room/internal/storage"
)

// Server - локальная заглушка сервиса интервью: выдает вопросы из банка
// и детерминированно оценивает ответы
type Server struct {
	app           *fiber.App
	bank          *config.QuestionBank
	store         *storage.Store
	questionCount int
	logger        *log.Logger
}

// New создает сервер и регистрирует маршруты
func New(bank *config.QuestionBank, store *storage.Store, questionCount int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Server{
		bank:          bank,
		store:         store,
		questionCount: questionCount,
		logger:        logger,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(requestLogger(logger))
	s.app.Use(fiberRecover.New())

	s.app.Route("/api/interview", func(router fiber.Router) {
		router.Post("generate-questions", s.GenerateQuestions)
		router.Post("submit-answers", s.SubmitAnswers)
		router.Get("", s.ListInterviews)
		router.Get(":id", s.GetInterview)
	})
	return s
}

// App возвращает fiber приложение, например для app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) GenerateQuestions(ctx *fiber.Ctx) error {
	var payload api.GenerateQuestionsRequest
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(newError("invalid request body"))
	}
	if strings.TrimSpace(payload.ResumeText) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(newError("resume text required"))
	}

	result := &storage.InterviewResult{
		InterviewID: uuid.NewString(),
		UserID:      payload.UserID,
		ResumeText:  payload.ResumeText,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		Questions:   s.bank.Pick(s.questionCount),
	}
	if err := s.store.Save(result); err != nil {
		s.logger.WithError(err).Error("ошибка сохранения интервью")
		return ctx.Status(fiber.StatusInternalServerError).JSON(newError("could not store interview"))
	}

	s.logger.
		WithField("interview_id", result.InterviewID).
		WithField("questions", len(result.Questions)).
		Info("вопросы сгенерированы")
	return ctx.Status(fiber.StatusCreated).JSON(api.QuestionSet{
		InterviewID: result.InterviewID,
		Questions:   result.Questions,
	})
}

func (s *Server) SubmitAnswers(ctx *fiber.Ctx) error {
	var payload api.SubmitAnswersRequest
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(newError("invalid request body"))
	}
	if strings.TrimSpace(payload.InterviewID) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(newError("interview id required"))
	}
	if len(payload.Answers) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(newError("answers required"))
	}

	report := scoreAnswers(payload.Answers)
	_, err := s.store.Update(payload.InterviewID, func(r *storage.InterviewResult) error {
		r.Answers = make([]storage.QA, 0, len(payload.Answers))
		for _, a := range payload.Answers {
			r.Answers = append(r.Answers, storage.QA{Question: a.Question, Answer: a.Answer})
		}
		r.Report = report
		r.SubmittedAt = time.Now().UTC().Format(time.RFC3339Nano)
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(newError("interview not found"))
	}
	if err != nil {
		s.logger.WithError(err).Error("ошибка сохранения ответов")
		return ctx.Status(fiber.StatusInternalServerError).JSON(newError("could not store answers"))
	}

	s.logger.
		WithField("interview_id", payload.InterviewID).
		WithField("overall_score", report.OverallScore).
		Info("ответы оценены")
	return ctx.Status(fiber.StatusOK).JSON(report)
}

// ListInterviews отдает историю интервью пользователя, новые первыми
func (s *Server) ListInterviews(ctx *fiber.Ctx) error {
	userID := strings.TrimSpace(ctx.Query("userId"))
	if userID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(newError("user id required"))
	}

	results := s.store.List(userID)
	records := make([]api.InterviewRecord, 0, len(results))
	for _, r := range results {
		records = append(records, toRecord(r))
	}
	return ctx.Status(fiber.StatusOK).JSON(records)
}

func (s *Server) GetInterview(ctx *fiber.Ctx) error {
	result, err := s.store.Get(ctx.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(newError("interview not found"))
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(newError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(toRecord(result))
}

func toRecord(r *storage.InterviewResult) api.InterviewRecord {
	record := api.InterviewRecord{
		InterviewID: r.InterviewID,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
		SubmittedAt: r.SubmittedAt,
		Questions:   r.Questions,
		Report:      r.Report,
	}
	for _, qa := range r.Answers {
		record.Answers = append(record.Answers, api.AnswerPayload{Question: qa.Question, Answer: qa.Answer})
	}
	return record
}

func newError(message string) api.ErrorBody {
	return api.ErrorBody{Message: message}
}

func errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return ctx.Status(code).JSON(newError(err.Error()))
}
