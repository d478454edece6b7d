package api

// GenerateQuestionsRequest - запрос на генерацию вопросов по резюме
type GenerateQuestionsRequest struct {
	ResumeText string `json:"resumeText"`
	UserID     string `json:"userId,omitempty"`
}

// QuestionSet - вопросы интервью и идентификатор, под которым сервис их сохранил
type QuestionSet struct {
	InterviewID string   `json:"interviewId"`
	Questions   []string `json:"questions"`
}

type AnswerPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SubmitAnswersRequest struct {
	InterviewID string          `json:"interviewId"`
	Answers     []AnswerPayload `json:"answers"`
}

type QuestionFeedback struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Accurate bool   `json:"accurate"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// FeedbackReport - отчет сервиса оценки. После получения не изменяется.
type FeedbackReport struct {
	OverallScore        int                `json:"overallScore"`
	TechnicalAccuracy   string             `json:"technicalAccuracy"`
	QuestionFeedbacks   []QuestionFeedback `json:"questionFeedbacks"`
	AreasForImprovement []string           `json:"areasForImprovement"`
	Strengths           []string           `json:"strengths"`
}

// ErrorBody - тело ответа с ошибкой
type ErrorBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InterviewRecord - сохраненное интервью в истории пользователя
type InterviewRecord struct {
	InterviewID string          `json:"interviewId"`
	UserID      string          `json:"userId,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	SubmittedAt string          `json:"submittedAt,omitempty"`
	Questions   []string        `json:"questions"`
	Answers     []AnswerPayload `json:"answers,omitempty"`
	Report      *FeedbackReport `json:"report,omitempty"`
}
