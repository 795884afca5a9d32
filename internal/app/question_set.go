package app

import (
	"time"

	"codemcq-service/internal/domain"
	"github.com/google/uuid"
)

const questionSetKeyPrefix = "attempt_questions_"

// QuestionSet is the cached randomized copy of a quiz bound to a user's attempts.
type QuestionSet struct {
	ID        string            `json:"id"`
	Key       string            `json:"key"`
	UserID    string            `json:"user_id"`
	QuizID    string            `json:"quiz_id"`
	Questions []domain.Question `json:"questions"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// CacheKey is the per-user key of a quiz's randomized set. Two in-progress
// attempts of the same quiz by one user share it.
func CacheKey(quizID string) string {
	return questionSetKeyPrefix + quizID
}

// NewQuestionSet wraps a randomized quiz into a cache record.
func NewQuestionSet(userID string, quiz domain.QuizDefinition, now time.Time, ttl time.Duration) QuestionSet {
	return QuestionSet{
		ID:        uuid.NewString(),
		Key:       CacheKey(quiz.ID),
		UserID:    userID,
		QuizID:    quiz.ID,
		Questions: quiz.Questions,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the record is past its expiry at now.
func (s QuestionSet) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Position returns the index of a question in the set, or -1.
func (s QuestionSet) Position(id domain.QuestionID) int {
	for i, q := range s.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}
