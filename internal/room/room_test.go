package room

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"interview-room/internal/api"
	"interview-room/internal/capture"
	"interview-room/internal/metrics"
	"interview-room/internal/timer"
)

const wait = time.Second

type fakeQuestions struct {
	mu     sync.Mutex
	set    *api.QuestionSet
	err    error
	calls  int
	resume string
	userID string
}

func (f *fakeQuestions) GenerateQuestions(ctx context.Context, resumeText, userID string) (*api.QuestionSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.resume = resumeText
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

type fakeScorer struct {
	mu       sync.Mutex
	report   *api.FeedbackReport
	err      error
	block    chan struct{}
	calls    int
	received []api.AnswerPayload
}

func (f *fakeScorer) SubmitAnswers(ctx context.Context, interviewID string, answers []api.AnswerPayload) (*api.FeedbackReport, error) {
	f.mu.Lock()
	f.calls++
	f.received = answers
	block, report, err := f.block, f.report, f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

type fakeHistory struct {
	records []api.InterviewRecord
	err     error
	userID  string
}

func (f *fakeHistory) ListInterviews(ctx context.Context, userID string) ([]api.InterviewRecord, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var report = &api.FeedbackReport{
	OverallScore:      55,
	TechnicalAccuracy: "Fair",
	QuestionFeedbacks: []api.QuestionFeedback{
		{Question: "Q0", Answer: "I have 3 years experience", Accurate: true, Score: 12, Feedback: "Good"},
		{Question: "Q1", Answer: "Skipped", Score: 0, Feedback: "Skipped"},
	},
	Strengths:           []string{"Concise"},
	AreasForImprovement: []string{"Answer every question"},
}

type fixture struct {
	room      *Room
	out       *bytes.Buffer
	clock     *timer.ManualClock
	questions *fakeQuestions
	scorer    *fakeScorer
	history   *fakeHistory
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T, supported bool) *fixture {
	t.Helper()
	f := &fixture{
		out:   &bytes.Buffer{},
		clock: timer.NewManualClock(),
		questions: &fakeQuestions{set: &api.QuestionSet{
			InterviewID: "int-1",
			Questions:   []string{"Q0", "Q1"},
		}},
		scorer:  &fakeScorer{report: report},
		history: &fakeHistory{},
		metrics: metrics.NewMetrics(),
	}
	var rec *capture.LineRecognizer
	if supported {
		rec = capture.NewLineRecognizer()
	}
	f.room = New(Config{
		Out:             f.out,
		Questions:       f.questions,
		Scorer:          f.scorer,
		History:         f.history,
		Recognizer:      rec,
		Clock:           f.clock,
		QuestionSeconds: 2,
		Metrics:         f.metrics,
	})
	t.Cleanup(f.room.teardown)
	return f
}

// send обрабатывает строку так же, как цикл Run
func (f *fixture) send(t *testing.T, line string) {
	t.Helper()
	err := f.room.Handle(context.Background(), line)
	require.NoError(t, err)
	f.room.Drain(context.Background())
}

func (f *fixture) waitFor(t *testing.T, text string) {
	t.Helper()
	require.Eventually(t, func() bool {
		f.room.Drain(context.Background())
		return strings.Contains(f.out.String(), text)
	}, wait, 5*time.Millisecond)
}

func (f *fixture) expireCurrent(t *testing.T) {
	t.Helper()
	ticker := f.clock.Last()
	require.NotNil(t, ticker)
	require.True(t, ticker.Tick(wait))
	require.True(t, ticker.Tick(wait))
}

func TestRoom(t *testing.T) {
	t.Run(`answer, expire, finish and see the report`, func(t *testing.T) {
		f := newFixture(t, true)

		f.send(t, "/resume Go developer with 3 years experience")
		f.send(t, "/user candidate@example.com")
		f.send(t, "/start")
		require.Equal(t, ViewInterview, f.room.View())
		require.Contains(t, f.out.String(), "Question 1 of 2\nQ0")
		require.Equal(t, "Go developer with 3 years experience", f.questions.resume)
		require.Equal(t, "candidate@example.com", f.questions.userID)

		f.send(t, "/record")
		require.Contains(t, f.out.String(), "Recording.")
		f.send(t, "I have 3 years experience")
		require.Contains(t, f.out.String(), "Transcript: I have 3 years experience")

		ticker := f.clock.Last()
		require.True(t, ticker.Tick(wait))
		f.waitFor(t, "⏱ 0:01 ⚠")
		require.True(t, ticker.Tick(wait))
		f.waitFor(t, "Question 2 of 2\nQ1")
		require.Contains(t, f.out.String(), "Time is up for question 1.")
		require.Contains(t, f.out.String(), "/skip to finish interview")

		f.send(t, "/skip")
		require.Equal(t, ViewFeedback, f.room.View())
		require.Equal(t, 1, f.scorer.callCount())
		require.Equal(t, []api.AnswerPayload{
			{Question: "Q0", Answer: "I have 3 years experience"},
			{Question: "Q1", Answer: "Skipped"},
		}, f.scorer.received)

		out := f.out.String()
		require.Contains(t, out, "Overall score: 55/100")
		require.Contains(t, out, "Technical accuracy: Fair")
		require.Contains(t, out, "✓ Question 1 (score 12): Q0")
		require.Contains(t, out, "✗ Question 2 (score 0): Q1")
		require.Contains(t, out, "• Concise")
		require.Contains(t, out, "• Answer every question")

		f.out.Reset()
		f.send(t, "/report")
		require.Equal(t, ViewDashboard, f.room.View())
		require.Contains(t, f.out.String(), "Overall score: 55/100")
	})

	t.Run(`ending before any answer returns to the dashboard without a call`, func(t *testing.T) {
		f := newFixture(t, true)

		f.send(t, "/resume Go developer")
		f.send(t, "/start")
		f.send(t, "/end")

		require.Equal(t, ViewDashboard, f.room.View())
		require.Equal(t, 0, f.scorer.callCount())
		require.Contains(t, f.out.String(), "No answers were recorded")
		require.EqualValues(t, 1, f.metrics.GetSnapshot().SessionsAbandoned)

		f.send(t, "/start")
		require.Equal(t, ViewInterview, f.room.View())
	})

	t.Run(`ending early submits the answers so far`, func(t *testing.T) {
		f := newFixture(t, true)

		f.send(t, "/resume Go developer")
		f.send(t, "/start")
		f.send(t, "/skip")
		f.send(t, "/end")

		require.Equal(t, 1, f.scorer.callCount())
		require.Equal(t, []api.AnswerPayload{{Question: "Q0", Answer: "Skipped"}}, f.scorer.received)
		require.Equal(t, ViewFeedback, f.room.View())
	})

	t.Run(`service errors are shown verbatim and keep the dashboard`, func(t *testing.T) {
		f := newFixture(t, true)
		f.questions.err = &api.ServiceError{Status: 400, Message: "resume text required"}

		f.send(t, "/resume Go")
		f.send(t, "/start")

		require.Equal(t, ViewDashboard, f.room.View())
		require.Contains(t, f.out.String(), "Error: resume text required")
		require.NotContains(t, f.out.String(), "try /start again")
	})

	t.Run(`network errors suggest trying again`, func(t *testing.T) {
		f := newFixture(t, true)
		f.questions.err = &api.NetworkError{Op: "generate questions", Err: io.ErrUnexpectedEOF}

		f.send(t, "/resume Go developer")
		f.send(t, "/start")

		require.Equal(t, ViewDashboard, f.room.View())
		require.Contains(t, f.out.String(), "Error: Could not reach the interview service.")
		require.Contains(t, f.out.String(), "try /start again")
	})

	t.Run(`history lists past interviews and reopens reports`, func(t *testing.T) {
		f := newFixture(t, true)
		f.history.records = []api.InterviewRecord{
			{InterviewID: "int-2", CreatedAt: "2026-01-02T10:00:00Z", Report: report},
			{InterviewID: "int-1", CreatedAt: "2026-01-01T10:00:00Z"},
		}

		f.send(t, "/history")
		require.Contains(t, f.out.String(), "Set your user id first")

		f.send(t, "/user candidate@example.com")
		f.send(t, "/history")
		require.Equal(t, "candidate@example.com", f.history.userID)
		out := f.out.String()
		require.Contains(t, out, "1. ")
		require.Contains(t, out, "score 55/100 (Fair)")
		require.Contains(t, out, "2. ")
		require.Contains(t, out, "not scored")

		f.out.Reset()
		f.send(t, "/report 1")
		require.Contains(t, f.out.String(), "Overall score: 55/100")

		f.out.Reset()
		f.send(t, "/report 2")
		require.Contains(t, f.out.String(), "Interview 2 has no feedback report yet.")

		f.out.Reset()
		f.send(t, "/report 7")
		require.Contains(t, f.out.String(), "No interview number 7.")
	})

	t.Run(`history failure keeps the dashboard`, func(t *testing.T) {
		f := newFixture(t, true)
		f.history.err = &api.TimeoutError{Op: "list interviews", Timeout: time.Second}

		f.send(t, "/user candidate@example.com")
		f.send(t, "/history")
		require.Equal(t, ViewDashboard, f.room.View())
		require.Contains(t, f.out.String(), "did not respond in time")
		require.Contains(t, f.out.String(), "try /history again")
	})

	t.Run(`submission failure is reported once`, func(t *testing.T) {
		f := newFixture(t, true)
		f.scorer.err = &api.TimeoutError{Op: "submit answers", Timeout: time.Second}

		f.send(t, "/resume Go developer")
		f.send(t, "/start")
		f.send(t, "/skip")
		f.send(t, "/skip")

		require.Equal(t, ViewDashboard, f.room.View())
		require.Equal(t, 1, f.scorer.callCount())
		require.Equal(t, 1, strings.Count(f.out.String(), "did not respond in time"))
	})

	t.Run(`start requires a resume`, func(t *testing.T) {
		f := newFixture(t, true)

		f.send(t, "/start")
		require.Equal(t, 0, f.questions.calls)
		require.Contains(t, f.out.String(), "Load your resume first")
	})

	t.Run(`upload reads resume from a file`, func(t *testing.T) {
		f := newFixture(t, true)
		path := filepath.Join(t.TempDir(), "resume.txt")
		require.NoError(t, os.WriteFile(path, []byte("  Backend engineer  \n"), 0644))

		f.send(t, "/upload "+path)
		f.send(t, "/upload "+filepath.Join(t.TempDir(), "missing.txt"))
		f.send(t, "/start")
		require.Equal(t, "Backend engineer", f.questions.resume)
		require.Contains(t, f.out.String(), "Error: could not read")
	})

	t.Run(`speech needs the microphone on`, func(t *testing.T) {
		f := newFixture(t, true)

		f.send(t, "/resume Go developer")
		f.send(t, "/start")
		f.send(t, "hello")
		require.Contains(t, f.out.String(), "The microphone is off")

		f.send(t, "/record")
		f.send(t, "hello")
		f.send(t, "/record")
		f.send(t, "ignored")
		f.send(t, "/skip")
		require.Equal(t, "hello", f.room.controller.Answers()[0].Answer)
	})

	t.Run(`unsupported speech falls back to skipping`, func(t *testing.T) {
		f := newFixture(t, false)

		f.send(t, "/resume Go developer")
		f.send(t, "/start")
		require.Contains(t, f.out.String(), "Speech recognition is not available")
		require.NotContains(t, f.out.String(), "/record to answer")

		f.send(t, "/record")
		f.send(t, "my answer")
		require.Equal(t, 2, strings.Count(f.out.String(), "Speech recognition is not supported here"))

		f.expireCurrent(t)
		f.waitFor(t, "Question 2 of 2")
		f.send(t, "/skip")
		require.Equal(t, []api.AnswerPayload{
			{Question: "Q0", Answer: "Skipped"},
			{Question: "Q1", Answer: "Skipped"},
		}, f.scorer.received)
	})

	t.Run(`status shows progress and counters`, func(t *testing.T) {
		f := newFixture(t, true)

		f.send(t, "/resume Go developer")
		f.send(t, "/start")
		f.send(t, "/status")
		out := f.out.String()
		require.Contains(t, out, "View: interview")
		require.Contains(t, out, "Question 1 of 2")
		require.Contains(t, out, "Sessions: 1 started, 0 completed, 0 ended early")
	})
}

func TestRun(t *testing.T) {
	t.Run(`quit stops the loop and releases the timer`, func(t *testing.T) {
		f := newFixture(t, true)

		in := strings.NewReader("/resume Go developer\n/start\n/quit\n/start\n")
		require.NoError(t, f.room.Run(context.Background(), in))
		require.Equal(t, 1, f.questions.calls)
		require.Eventually(t, func() bool { return f.clock.Last().Stopped() }, wait, 5*time.Millisecond)
	})

	t.Run(`end of input tears down`, func(t *testing.T) {
		f := newFixture(t, true)

		in := strings.NewReader("/resume Go developer\n/start\n/record\n")
		require.NoError(t, f.room.Run(context.Background(), in))
		require.Contains(t, f.out.String(), "Question 1 of 2")
		require.Eventually(t, func() bool { return f.clock.Last().Stopped() }, wait, 5*time.Millisecond)
	})

	t.Run(`cancelled context stops the loop`, func(t *testing.T) {
		f := newFixture(t, true)
		reader, writer := io.Pipe()
		defer writer.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- f.room.Run(ctx, reader) }()

		cancel()
		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(wait):
			t.Fatal("room did not stop")
		}
	})
}

func TestRunCancelledDuringSubmission(t *testing.T) {
	f := newFixture(t, true)
	f.scorer.block = make(chan struct{})

	reader, writer := io.Pipe()
	defer writer.Close()
	go func() {
		_, _ = io.WriteString(writer, "/resume Go developer\n/start\n/skip\n/skip\n")
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.room.Run(ctx, reader) }()

	require.Eventually(t, func() bool { return f.scorer.callCount() == 1 }, wait, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(wait):
		t.Fatal("room did not stop")
	}

	out := f.out.String()
	require.Contains(t, out, "Submitting 2 answers")
	require.NotContains(t, out, "cancelled")
	require.NotContains(t, out, "Back to the dashboard")
	require.Equal(t, ViewInterview, f.room.View())
	require.Nil(t, f.room.submitter.Report())
}

func TestFormatCountdown(t *testing.T) {
	require.Equal(t, "⏱ 0:40", formatCountdown(40))
	require.Equal(t, "⏱ 0:11", formatCountdown(11))
	require.Equal(t, "⏱ 0:10 ⚠", formatCountdown(10))
	require.Equal(t, "⏱ 1:05", formatCountdown(65))
}
