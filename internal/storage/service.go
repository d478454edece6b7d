package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound возвращается, если интервью с таким ID нет
var ErrNotFound = errors.New("interview not found")

const (
	filePrefix = "interview_"
	fileSuffix = ".json"
)

// Store хранит интервью в памяти. Если задан dir, каждое сохранение
// дублируется в JSON файл, и при открытии файлы подгружаются обратно.
type Store struct {
	mu      sync.RWMutex
	dir     string
	results map[string]*InterviewResult
}

// NewStore создает хранилище. dir == "" означает хранение только в памяти.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		dir:     dir,
		results: make(map[string]*InterviewResult),
	}
	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}
	ids, err := listResults(dir)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result, err := loadResult(dir, id)
		if err != nil {
			return nil, err
		}
		s.results[id] = result
	}
	return s, nil
}

// Save сохраняет или перезаписывает интервью
func (s *Store) Save(result *InterviewResult) error {
	if strings.TrimSpace(result.InterviewID) == "" {
		return errors.New("interview id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := result.clone()
	if s.dir != "" {
		if err := saveResult(s.dir, stored); err != nil {
			return err
		}
	}
	s.results[stored.InterviewID] = stored
	return nil
}

// Get возвращает копию интервью
func (s *Store) Get(interviewID string) (*InterviewResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[interviewID]
	if !ok {
		return nil, ErrNotFound
	}
	return result.clone(), nil
}

// List возвращает интервью пользователя, новые первыми. userID == "" - все интервью.
func (s *Store) List(userID string) []*InterviewResult {
	s.mu.RLock()
	results := make([]*InterviewResult, 0, len(s.results))
	for _, r := range s.results {
		if userID == "" || r.UserID == userID {
			results = append(results, r.clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		ti, tj := results[i].createdTime(), results[j].createdTime()
		if ti.Equal(tj) {
			return results[i].InterviewID > results[j].InterviewID
		}
		return ti.After(tj)
	})
	return results
}

// Update применяет fn к сохраненному интервью под блокировкой
func (s *Store) Update(interviewID string, fn func(*InterviewResult) error) (*InterviewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.results[interviewID]
	if !ok {
		return nil, ErrNotFound
	}
	updated := result.clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	if s.dir != "" {
		if err := saveResult(s.dir, updated); err != nil {
			return nil, err
		}
	}
	s.results[interviewID] = updated
	return updated.clone(), nil
}

func resultPath(dir, interviewID string) string {
	return filepath.Join(dir, filePrefix+interviewID+fileSuffix)
}

// saveResult сохраняет результат интервью в JSON файл
func saveResult(dir string, result *InterviewResult) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	path := resultPath(dir, result.InterviewID)
	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}
	return nil
}

// loadResult загружает результат интервью из JSON файла
func loadResult(dir, interviewID string) (*InterviewResult, error) {
	path := resultPath(dir, interviewID)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var result InterviewResult
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}
	return &result, nil
}

// listResults возвращает ID интервью, сохраненных в директории
func listResults(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", dir, err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	}
	return ids, nil
}
