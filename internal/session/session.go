package session

// SkippedMarker записывается вместо ответа, когда транскрипт пуст
const SkippedMarker = "Skipped"

// Answer представляет один вопрос и ответ
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Skipped сообщает, был ли вопрос пропущен
func (a Answer) Skipped() bool {
	return a.Answer == SkippedMarker
}

// Session хранит вопросы одного прохода интервью и записанные ответы.
// Инвариант: len(answers) == index, index не уменьшается.
type Session struct {
	ID          string
	InterviewID string
	questions   []string
	index       int
	answers     []Answer
}

func newSession(id, interviewID string, questions []string) *Session {
	qs := make([]string, len(questions))
	copy(qs, questions)
	return &Session{
		ID:          id,
		InterviewID: interviewID,
		questions:   qs,
		answers:     make([]Answer, 0, len(qs)),
	}
}

// Index возвращает индекс текущего вопроса
func (s *Session) Index() int {
	return s.index
}

// Total возвращает количество вопросов
func (s *Session) Total() int {
	return len(s.questions)
}

// Current возвращает текст текущего вопроса
func (s *Session) Current() (string, bool) {
	if s.index >= len(s.questions) {
		return "", false
	}
	return s.questions[s.index], true
}

// IsLast сообщает, является ли текущий вопрос последним
func (s *Session) IsLast() bool {
	return s.index == len(s.questions)-1
}

// Done сообщает, что на все вопросы записаны ответы
func (s *Session) Done() bool {
	return s.index >= len(s.questions)
}

// Questions возвращает копию списка вопросов
func (s *Session) Questions() []string {
	out := make([]string, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers возвращает копию записанных ответов
func (s *Session) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// record записывает ответ на текущий вопрос и переходит к следующему
func (s *Session) record(text string) (Answer, bool) {
	question, ok := s.Current()
	if !ok {
		return Answer{}, false
	}
	answer := Answer{Question: question, Answer: text}
	s.answers = append(s.answers, answer)
	s.index++
	return answer, true
}
