package room

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"interview-room/internal/api"
	"interview-room/internal/capture"
	"interview-room/internal/session"
)

func splitCommand(line string) (string, string) {
	command, arg, _ := strings.Cut(line, " ")
	return strings.ToLower(command), strings.TrimSpace(arg)
}

// handleDashboard обрабатывает команды дашборда
func (r *Room) handleDashboard(ctx context.Context, line string) error {
	command, arg := splitCommand(line)
	switch command {
	case "/upload":
		r.handleUpload(arg)
	case "/resume":
		r.handleResume(arg)
	case "/user":
		r.handleUser(arg)
	case "/start":
		r.handleStart(ctx)
	case "/history":
		r.handleHistory(ctx)
	case "/report":
		r.handleReport(arg)
	case "/status":
		r.renderStatus()
	case "/help":
		r.renderDashboard()
	case "/quit":
		return errQuit
	default:
		r.printf("Unknown command. Use /help to see the available commands.\n")
	}
	return nil
}

// handleInterview обрабатывает команды во время интервью; остальные строки считаются речью
func (r *Room) handleInterview(ctx context.Context, line string) error {
	command, _ := splitCommand(line)
	if !strings.HasPrefix(command, "/") {
		r.handleSpeech(line)
		return nil
	}

	switch command {
	case "/record":
		r.handleRecord()
	case "/skip":
		r.reportControllerError(r.controller.Skip())
	case "/end":
		r.printf("Ending the interview early. The current question is not recorded.\n")
		r.reportControllerError(r.controller.End())
	case "/status":
		r.renderStatus()
	case "/help":
		r.renderInterviewHelp(r.controller.Snapshot())
	case "/quit":
		return errQuit
	default:
		r.printf("Unknown command. Use /help to see the available commands.\n")
	}
	return nil
}

func (r *Room) handleUpload(path string) {
	if path == "" {
		r.printf("Usage: /upload <path to resume text file>\n")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.WithError(err).WithField("path", path).Warn("ошибка чтения резюме")
		r.printf("Error: could not read %s.\n", path)
		return
	}
	r.handleResume(string(data))
}

func (r *Room) handleResume(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		r.printf("Resume text is empty. Use /upload <path> or /resume <text>.\n")
		return
	}
	r.resume = text
	r.printf("Resume loaded (%d characters). Use /start to begin the interview.\n", len([]rune(text)))
}

func (r *Room) handleUser(email string) {
	if email == "" {
		r.printf("Usage: /user <email>\n")
		return
	}
	r.userID = email
	r.printf("Signed in as %s.\n", email)
}

func (r *Room) handleStart(ctx context.Context) {
	if r.resume == "" {
		r.printf("Load your resume first with /upload <path> or /resume <text>.\n")
		return
	}

	r.printf("Generating interview questions...\n")
	set, err := r.questions.GenerateQuestions(ctx, r.resume, r.userID)
	if err != nil {
		r.logger.WithError(err).Error("ошибка генерации вопросов")
		r.printServiceError(err, "/start")
		return
	}

	if err := r.controller.Begin(set.InterviewID, set.Questions); err != nil {
		if errors.Is(err, session.ErrNoQuestions) {
			r.printf("The interview service returned no questions. Please try again.\n")
			return
		}
		r.printf("Error: %s\n", err)
		return
	}
	r.submitter.Clear()
	if !r.controller.CaptureSupported() {
		r.printf("Speech recognition is not available. Unanswered questions are recorded as %q.\n", session.SkippedMarker)
	}
}

func (r *Room) handleHistory(ctx context.Context) {
	if r.historian == nil {
		r.printf("Interview history is not available.\n")
		return
	}
	if r.userID == "" {
		r.printf("Set your user id first with /user <email>.\n")
		return
	}

	records, err := r.historian.ListInterviews(ctx, r.userID)
	if err != nil {
		r.logger.WithError(err).Error("ошибка загрузки истории интервью")
		r.printServiceError(err, "/history")
		return
	}
	r.history = records
	r.renderHistory(records)
}

// handleReport показывает последний отчет или, с номером, отчет из /history
func (r *Room) handleReport(arg string) {
	if arg == "" {
		report := r.submitter.Report()
		if report == nil {
			r.printf("No feedback report yet. Finish an interview to get one.\n")
			return
		}
		r.renderReport(report)
		return
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		r.printf("Usage: /report [number from /history]\n")
		return
	}
	if n > len(r.history) {
		r.printf("No interview number %d. Use /history to list your interviews.\n", n)
		return
	}
	record := r.history[n-1]
	if record.Report == nil {
		r.printf("Interview %d has no feedback report yet.\n", n)
		return
	}
	r.renderReport(record.Report)
}

// printServiceError показывает сообщение сервиса и подсказку, если запрос можно повторить
func (r *Room) printServiceError(err error, retry string) {
	r.printf("Error: %s\n", api.UserMessage(err))
	if api.IsRetryable(err) {
		r.printf("Check that the interview service is running, then try %s again.\n", retry)
	}
}

func (r *Room) handleRecord() {
	if !r.controller.CaptureSupported() {
		r.printf("Speech recognition is not supported here. Use /skip to move on.\n")
		return
	}
	if _, err := r.controller.ToggleCapture(); err != nil {
		r.logger.WithError(err).Warn("ошибка переключения записи")
		r.printf("Error: could not toggle recording.\n")
	}
}

func (r *Room) handleSpeech(text string) {
	if r.recognizer == nil {
		r.printf("Speech recognition is not supported here. Use /skip to move on.\n")
		return
	}
	if !r.recognizer.Feed(text) {
		r.printf("The microphone is off. Use /record to start answering.\n")
	}
}

func (r *Room) reportControllerError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, session.ErrNotInProgress) {
		r.printf("The interview is not in progress.\n")
		return
	}
	if errors.Is(err, capture.ErrUnsupported) {
		r.printf("Speech recognition is not supported here.\n")
		return
	}
	r.printf("Error: %s\n", err)
}
