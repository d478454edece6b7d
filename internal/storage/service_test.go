package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"interview-room/internal/api"
)

func newResult(id, createdAt string) *InterviewResult {
	return &InterviewResult{
		InterviewID: id,
		UserID:      "candidate@example.com",
		ResumeText:  "Go developer",
		CreatedAt:   createdAt,
		Questions:   []string{"Q0", "Q1"},
	}
}

func ids(results []*InterviewResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.InterviewID)
	}
	return out
}

func TestStore(t *testing.T) {
	t.Run(`list filters by user and puts newest first`, func(t *testing.T) {
		s, err := NewStore("")
		require.NoError(t, err)

		older := newResult("old", "2026-01-01T10:00:00Z")
		sub := newResult("sub", "2026-01-01T10:00:00.5Z")
		newer := newResult("new", "2026-01-03T10:00:00Z")
		other := newResult("other", "2026-01-04T10:00:00Z")
		other.UserID = "someone@example.com"
		for _, r := range []*InterviewResult{older, sub, newer, other} {
			require.NoError(t, s.Save(r))
		}

		require.Equal(t, []string{"new", "sub", "old"}, ids(s.List("candidate@example.com")))
		require.Equal(t, []string{"other", "new", "sub", "old"}, ids(s.List("")))
		require.Empty(t, s.List("nobody@example.com"))
	})

	t.Run(`save get and list in memory`, func(t *testing.T) {
		s, err := NewStore("")
		require.NoError(t, err)

		require.NoError(t, s.Save(newResult("b", "2026-01-02T00:00:00Z")))
		require.NoError(t, s.Save(newResult("a", "2026-01-01T00:00:00Z")))

		got, err := s.Get("b")
		require.NoError(t, err)
		require.Equal(t, []string{"Q0", "Q1"}, got.Questions)
		require.False(t, got.Submitted())
		require.Equal(t, []string{"b", "a"}, ids(s.List("")))

		_, err = s.Get("missing")
		require.ErrorIs(t, err, ErrNotFound)
		require.Error(t, s.Save(&InterviewResult{}))
	})

	t.Run(`returned copies do not alias the store`, func(t *testing.T) {
		s, err := NewStore("")
		require.NoError(t, err)
		require.NoError(t, s.Save(newResult("a", "t")))

		got, err := s.Get("a")
		require.NoError(t, err)
		got.Questions[0] = "changed"

		again, err := s.Get("a")
		require.NoError(t, err)
		require.Equal(t, "Q0", again.Questions[0])
	})

	t.Run(`update attaches answers and report`, func(t *testing.T) {
		s, err := NewStore("")
		require.NoError(t, err)
		require.NoError(t, s.Save(newResult("a", "t")))

		updated, err := s.Update("a", func(r *InterviewResult) error {
			r.Answers = []QA{{Question: "Q0", Answer: "Skipped"}}
			r.Report = &api.FeedbackReport{OverallScore: 10}
			return nil
		})
		require.NoError(t, err)
		require.True(t, updated.Submitted())

		_, err = s.Update("missing", func(*InterviewResult) error { return nil })
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(`results survive reopening the directory`, func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, s.Save(newResult("int-1", "t")))
		require.FileExists(t, filepath.Join(dir, "interview_int-1.json"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

		reopened, err := NewStore(dir)
		require.NoError(t, err)
		require.Equal(t, []string{"int-1"}, ids(reopened.List("")))
		got, err := reopened.Get("int-1")
		require.NoError(t, err)
		require.Equal(t, "candidate@example.com", got.UserID)
	})
}
