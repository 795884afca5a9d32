package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"codemcq-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptStore.
type AttemptStore struct {
	mu       sync.RWMutex
	nextID   int64
	seq      int64
	attempts map[int64]domain.Attempt
	answers  map[int64]map[domain.QuestionID]storedAnswer
}

type storedAnswer struct {
	seq    int64
	answer domain.AttemptAnswer
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[int64]domain.Attempt),
		answers:  make(map[int64]map[domain.QuestionID]storedAnswer),
	}
}

func (s *AttemptStore) CreateAttempt(_ context.Context, attempt *domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	attempt.ID = s.nextID
	s.attempts[attempt.ID] = copyAttempt(*attempt)
	return nil
}

func (s *AttemptStore) GetAttempt(_ context.Context, attemptID int64, userID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptID]
	if !ok || attempt.UserID != userID {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return copyAttempt(attempt), nil
}

func (s *AttemptStore) UpsertAnswer(_ context.Context, answer domain.AttemptAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[answer.AttemptID]; !ok {
		return domain.ErrAttemptNotFound
	}
	byQuestion, ok := s.answers[answer.AttemptID]
	if !ok {
		byQuestion = make(map[domain.QuestionID]storedAnswer)
		s.answers[answer.AttemptID] = byQuestion
	}
	entry, exists := byQuestion[answer.QuestionID]
	if !exists {
		s.seq++
		entry.seq = s.seq
	}
	entry.answer = copyAnswer(answer)
	byQuestion[answer.QuestionID] = entry
	return nil
}

func (s *AttemptStore) GetAnswer(_ context.Context, attemptID int64, questionID domain.QuestionID) (domain.AttemptAnswer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.answers[attemptID][questionID]
	if !ok {
		return domain.AttemptAnswer{}, false, nil
	}
	return copyAnswer(entry.answer), true, nil
}

// ListAnswers returns answers in first-submission order.
func (s *AttemptStore) ListAnswers(_ context.Context, attemptID int64) ([]domain.AttemptAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]storedAnswer, 0, len(s.answers[attemptID]))
	for _, entry := range s.answers[attemptID] {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]domain.AttemptAnswer, len(entries))
	for i, entry := range entries {
		out[i] = copyAnswer(entry.answer)
	}
	return out, nil
}

func (s *AttemptStore) CompleteAttempt(_ context.Context, attemptID int64, tally domain.Tally, completedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return false, domain.ErrAttemptNotFound
	}
	if attempt.Completed() {
		return false, nil
	}
	attempt.Score = tally.Correct
	attempt.TotalCorrect = tally.Correct
	attempt.TotalWrong = tally.Wrong
	attempt.TotalUnanswered = tally.Unanswered
	attempt.CompletedAt = &completedAt
	s.attempts[attemptID] = attempt
	return true, nil
}

func (s *AttemptStore) UserStats(_ context.Context, userID string) (domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats domain.UserStats
	sum := 0
	for _, attempt := range s.attempts {
		if attempt.UserID != userID {
			continue
		}
		stats.TotalAttempts++
		sum += attempt.Score
		if attempt.Score > stats.BestScore {
			stats.BestScore = attempt.Score
		}
	}
	if stats.TotalAttempts > 0 {
		stats.AverageScore = float64(sum) / float64(stats.TotalAttempts)
	}
	return stats, nil
}

// RecentAttempts orders by completion time, falling back to start time for open attempts.
func (s *AttemptStore) RecentAttempts(_ context.Context, userID string, limit int) ([]domain.Attempt, error) {
	s.mu.RLock()
	out := make([]domain.Attempt, 0)
	for _, attempt := range s.attempts {
		if attempt.UserID == userID {
			out = append(out, copyAttempt(attempt))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ti, tj := recency(out[i]), recency(out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func recency(a domain.Attempt) time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	return a.StartedAt
}

func copyAttempt(a domain.Attempt) domain.Attempt {
	if a.CompletedAt != nil {
		at := *a.CompletedAt
		a.CompletedAt = &at
	}
	return a
}

func copyAnswer(a domain.AttemptAnswer) domain.AttemptAnswer {
	if a.SelectedOptionID != nil {
		id := *a.SelectedOptionID
		a.SelectedOptionID = &id
	}
	return a
}
