package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                 sync.RWMutex
	SessionsStarted    int64
	SessionsCompleted  int64
	SessionsAbandoned  int64
	AnswersRecorded    int64
	AnswersSkipped     int64
	ReportsReceived    int64
	APICallsTotal      int64
	APICallsSuccessful int64
	LastUpdateTime     time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
}

// IncrementSessionsEnded учитывает завершение сессии: полное или досрочное
func (m *Metrics) IncrementSessionsEnded(completed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if completed {
		m.SessionsCompleted++
	} else {
		m.SessionsAbandoned++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswers(skipped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersRecorded++
	if skipped {
		m.AnswersSkipped++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementReportsReceived() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportsReceived++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
}

// Snapshot - копия счетчиков без мьютекса
type Snapshot struct {
	SessionsStarted    int64
	SessionsCompleted  int64
	SessionsAbandoned  int64
	AnswersRecorded    int64
	AnswersSkipped     int64
	ReportsReceived    int64
	APICallsTotal      int64
	APICallsSuccessful int64
	LastUpdateTime     time.Time
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		SessionsStarted:    m.SessionsStarted,
		SessionsCompleted:  m.SessionsCompleted,
		SessionsAbandoned:  m.SessionsAbandoned,
		AnswersRecorded:    m.AnswersRecorded,
		AnswersSkipped:     m.AnswersSkipped,
		ReportsReceived:    m.ReportsReceived,
		APICallsTotal:      m.APICallsTotal,
		APICallsSuccessful: m.APICallsSuccessful,
		LastUpdateTime:     m.LastUpdateTime,
	}
}
