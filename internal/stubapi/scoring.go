package stubapi

import (
	"fmt"
	"strings"

	"interview-room/internal/api"
	"interview-room/internal/session"
)

const (
	maxQuestionScore = 20
	accurateScore    = 10
)

// accuracyBands - нижние границы общей оценки для каждой метки
var accuracyBands = []struct {
	min   int
	label string
}{
	{80, "Excellent"},
	{60, "Good"},
	{40, "Fair"},
	{0, "Needs Improvement"},
}

// scoreAnswers детерминированно оценивает ответы по количеству слов
func scoreAnswers(answers []api.AnswerPayload) *api.FeedbackReport {
	report := &api.FeedbackReport{
		QuestionFeedbacks:   make([]api.QuestionFeedback, 0, len(answers)),
		Strengths:           []string{},
		AreasForImprovement: []string{},
	}

	var total, accurate, skipped, brief int
	for _, a := range answers {
		fb := scoreAnswer(a)
		report.QuestionFeedbacks = append(report.QuestionFeedbacks, fb)
		total += fb.Score
		switch {
		case isSkipped(a.Answer):
			skipped++
		case fb.Accurate:
			accurate++
		default:
			brief++
		}
	}

	if len(answers) > 0 {
		report.OverallScore = total * 100 / (maxQuestionScore * len(answers))
	}
	report.TechnicalAccuracy = accuracyLabel(report.OverallScore)

	if accurate > 0 {
		report.Strengths = append(report.Strengths,
			fmt.Sprintf("Gave detailed answers to %d of %d questions", accurate, len(answers)))
	}
	if skipped == 0 && len(answers) > 0 {
		report.Strengths = append(report.Strengths, "Answered every question")
	}
	if skipped > 0 {
		report.AreasForImprovement = append(report.AreasForImprovement,
			fmt.Sprintf("Answer every question instead of skipping (%d skipped)", skipped))
	}
	if brief > 0 {
		report.AreasForImprovement = append(report.AreasForImprovement,
			fmt.Sprintf("Expand brief answers with concrete examples (%d too short)", brief))
	}
	return report
}

func scoreAnswer(a api.AnswerPayload) api.QuestionFeedback {
	fb := api.QuestionFeedback{
		Question: a.Question,
		Answer:   a.Answer,
	}
	if isSkipped(a.Answer) {
		fb.Feedback = "The question was skipped."
		return fb
	}

	fb.Score = len(strings.Fields(a.Answer))
	if fb.Score > maxQuestionScore {
		fb.Score = maxQuestionScore
	}
	fb.Accurate = fb.Score >= accurateScore
	if fb.Accurate {
		fb.Feedback = "Clear answer with enough detail."
	} else {
		fb.Feedback = "The answer is too brief. Add specifics and examples."
	}
	return fb
}

func isSkipped(answer string) bool {
	trimmed := strings.TrimSpace(answer)
	return trimmed == "" || trimmed == session.SkippedMarker
}

func accuracyLabel(overall int) string {
	for _, band := range accuracyBands {
		if overall >= band.min {
			return band.label
		}
	}
	return accuracyBands[len(accuracyBands)-1].label
}
