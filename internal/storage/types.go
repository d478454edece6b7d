package storage

import (
	"time"

	"interview-room/internal/api"
)

// InterviewResult - сохраненное интервью: вопросы, ответы и отчет
type InterviewResult struct {
	InterviewID string              `json:"interview_id"`
	UserID      string              `json:"user_id,omitempty"`
	ResumeText  string              `json:"resume_text"`
	CreatedAt   string              `json:"created_at"`
	SubmittedAt string              `json:"submitted_at,omitempty"`
	Questions   []string            `json:"questions"`
	Answers     []QA                `json:"answers,omitempty"`
	Report      *api.FeedbackReport `json:"report,omitempty"`
}

// QA представляет один вопрос и ответ
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Submitted сообщает, были ли уже получены ответы
func (r *InterviewResult) Submitted() bool {
	return r.Report != nil
}

func (r *InterviewResult) clone() *InterviewResult {
	c := *r
	c.Questions = append([]string(nil), r.Questions...)
	c.Answers = append([]QA(nil), r.Answers...)
	return &c
}

func (r *InterviewResult) createdTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
