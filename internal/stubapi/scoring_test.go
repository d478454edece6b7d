package stubapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"interview-room/internal/api"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestScoreAnswers(t *testing.T) {
	t.Run(`scores by word count and caps at twenty`, func(t *testing.T) {
		report := scoreAnswers([]api.AnswerPayload{
			{Question: "Q0", Answer: words(30)},
			{Question: "Q1", Answer: words(5)},
			{Question: "Q2", Answer: "Skipped"},
			{Question: "Q3", Answer: "  "},
		})

		require.Equal(t, []int{20, 5, 0, 0}, []int{
			report.QuestionFeedbacks[0].Score,
			report.QuestionFeedbacks[1].Score,
			report.QuestionFeedbacks[2].Score,
			report.QuestionFeedbacks[3].Score,
		})
		require.True(t, report.QuestionFeedbacks[0].Accurate)
		require.False(t, report.QuestionFeedbacks[1].Accurate)
		require.Equal(t, 31, report.OverallScore)
		require.Equal(t, "Needs Improvement", report.TechnicalAccuracy)
		require.Equal(t, []string{"Gave detailed answers to 1 of 4 questions"}, report.Strengths)
		require.Equal(t, []string{
			"Answer every question instead of skipping (2 skipped)",
			"Expand brief answers with concrete examples (1 too short)",
		}, report.AreasForImprovement)
	})

	t.Run(`full marks`, func(t *testing.T) {
		report := scoreAnswers([]api.AnswerPayload{{Question: "Q0", Answer: words(20)}})
		require.Equal(t, 100, report.OverallScore)
		require.Equal(t, "Excellent", report.TechnicalAccuracy)
		require.Contains(t, report.Strengths, "Answered every question")
		require.Empty(t, report.AreasForImprovement)
	})

	t.Run(`accuracy bands`, func(t *testing.T) {
		require.Equal(t, "Excellent", accuracyLabel(80))
		require.Equal(t, "Good", accuracyLabel(79))
		require.Equal(t, "Good", accuracyLabel(60))
		require.Equal(t, "Fair", accuracyLabel(40))
		require.Equal(t, "Needs Improvement", accuracyLabel(39))
	})
}
