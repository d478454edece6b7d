package room

import (
	"fmt"
	"strings"
	"time"

	"interview-room/internal/api"
	"interview-room/internal/session"
)

// urgentSeconds - последние секунды отсчета, которые выделяются
const urgentSeconds = 10

const banner = `🎤 Interview Room
Practice interviews generated from your resume, with a timer on every question.`

func (r *Room) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Room) renderDashboard() {
	r.printf(`
Dashboard commands:
/upload <path>  - load resume text from a file
/resume <text>  - paste resume text
/user <email>   - set the user id sent with the resume
/start          - generate questions and start the interview
/history        - list your past interviews
/report [n]     - show the last feedback report, or interview n from /history
/status         - show progress and counters
/help           - show this message
/quit           - exit
`)
}

func (r *Room) renderInterviewHelp(snap session.Snapshot) {
	r.printf("\nInterview commands:\n")
	if snap.CaptureSupported {
		r.printf("/record  - start or stop recording your answer\n")
	}
	r.printf("/skip    - %s\n", skipLabel(snap.IsLast))
	r.printf("/end     - end the interview now\n")
	r.printf("/status  - show progress\n")
	if snap.CaptureSupported {
		r.printf("Any other line while recording is taken as your spoken answer.\n")
	}
}

func skipLabel(isLast bool) string {
	if isLast {
		return "Finish Interview"
	}
	return "Skip Question"
}

func formatCountdown(remaining int) string {
	text := fmt.Sprintf("⏱ %d:%02d", remaining/60, remaining%60)
	if remaining <= urgentSeconds {
		text += " ⚠"
	}
	return text
}

func (r *Room) renderQuestion(ev session.Event) {
	r.printf("\nQuestion %d of %d\n%s\n%s\n", ev.Index+1, ev.Total, ev.Question, formatCountdown(ev.Remaining))
	isLast := ev.Index == ev.Total-1
	if r.controller.CaptureSupported() {
		r.printf("/record to answer, /skip to %s, /end to stop.\n", strings.ToLower(skipLabel(isLast)))
	} else {
		r.printf("/skip to %s, /end to stop.\n", strings.ToLower(skipLabel(isLast)))
	}
}

func (r *Room) renderCountdown(remaining int) {
	r.printf("%s\n", formatCountdown(remaining))
}

func (r *Room) renderCapture(ev session.Event) {
	if ev.Listening {
		r.printf("🔴 Recording. Type your answer; use /record again to pause.\n")
		return
	}
	r.printf("Recording paused.\n")
}

func (r *Room) renderAnswer(ev session.Event) {
	if ev.Trigger == session.TriggerExpired {
		r.printf("Time is up for question %d.\n", ev.Index+1)
	}
	if ev.Answer.Skipped() {
		r.printf("Question %d recorded as %s.\n", ev.Index+1, session.SkippedMarker)
		return
	}
	r.printf("Answer to question %d saved.\n", ev.Index+1)
}

func (r *Room) renderStatus() {
	snap := r.controller.Snapshot()
	r.printf("\nView: %s\n", r.view)
	if r.userID != "" {
		r.printf("User: %s\n", r.userID)
	}
	if snap.State == session.StateInProgress {
		r.printf("Question %d of %d, %s\n", snap.Index+1, snap.Total, formatCountdown(snap.Remaining))
		r.printf("Answers recorded: %d\n", len(snap.Answers))
		if snap.Listening {
			r.printf("Recording: %s\n", snap.Transcript)
		}
	}

	m := r.metrics.GetSnapshot()
	r.printf("Sessions: %d started, %d completed, %d ended early\n",
		m.SessionsStarted, m.SessionsCompleted, m.SessionsAbandoned)
	r.printf("Answers: %d recorded, %d skipped\n", m.AnswersRecorded, m.AnswersSkipped)
	r.printf("API calls: %d/%d successful\n", m.APICallsSuccessful, m.APICallsTotal)
}

func formatDate(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (r *Room) renderHistory(records []api.InterviewRecord) {
	if len(records) == 0 {
		r.printf("No past interviews yet. Use /start to take one.\n")
		return
	}
	r.printf("\nYour interviews:\n")
	for i, rec := range records {
		if rec.Report == nil {
			r.printf("%d. %s  not scored\n", i+1, formatDate(rec.CreatedAt))
			continue
		}
		r.printf("%d. %s  score %d/100 (%s)\n", i+1, formatDate(rec.CreatedAt),
			rec.Report.OverallScore, rec.Report.TechnicalAccuracy)
	}
	r.printf("Use /report <n> to see a report again.\n")
}

func (r *Room) renderReport(report *api.FeedbackReport) {
	r.printf("\n📊 Interview feedback\n")
	r.printf("Overall score: %d/100\n", report.OverallScore)
	r.printf("Technical accuracy: %s\n", report.TechnicalAccuracy)

	for i, fb := range report.QuestionFeedbacks {
		mark := "✗"
		if fb.Accurate {
			mark = "✓"
		}
		r.printf("\n%s Question %d (score %d): %s\n", mark, i+1, fb.Score, fb.Question)
		r.printf("  Your answer: %s\n", fb.Answer)
		if fb.Feedback != "" {
			r.printf("  Feedback: %s\n", fb.Feedback)
		}
	}

	if len(report.Strengths) > 0 {
		r.printf("\nStrengths:\n")
		for _, s := range report.Strengths {
			r.printf("  • %s\n", s)
		}
	}
	if len(report.AreasForImprovement) > 0 {
		r.printf("\nAreas for improvement:\n")
		for _, s := range report.AreasForImprovement {
			r.printf("  • %s\n", s)
		}
	}
	r.printf("\nUse /start for another interview or /report to see this again.\n")
}
