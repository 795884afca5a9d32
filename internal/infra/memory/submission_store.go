package memory

import (
	"context"
	"sync"

	"codemcq-service/internal/domain"
)

// SubmissionStore is an in-memory implementation of app.SubmissionStore.
type SubmissionStore struct {
	mu          sync.RWMutex
	nextID      int64
	submissions []domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{}
}

func (s *SubmissionStore) SaveSubmission(_ context.Context, sub *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sub.ID = s.nextID
	s.submissions = append(s.submissions, *sub)
	return nil
}

// ListSubmissions returns newest first.
func (s *SubmissionStore) ListSubmissions(_ context.Context, userID, challengeID string) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, 0)
	for i := len(s.submissions) - 1; i >= 0; i-- {
		sub := s.submissions[i]
		if sub.UserID == userID && sub.ChallengeID == challengeID {
			out = append(out, sub)
		}
	}
	return out, nil
}
