package app

import (
	"context"
	"time"

	"codemcq-service/internal/domain"
)

// AttemptStore persists attempts and their answers (bun over Postgres/SQLite, or memory).
type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt *domain.Attempt) error
	// GetAttempt returns domain.ErrAttemptNotFound unless the attempt is owned by userID.
	GetAttempt(ctx context.Context, attemptID int64, userID string) (domain.Attempt, error)
	UpsertAnswer(ctx context.Context, answer domain.AttemptAnswer) error
	GetAnswer(ctx context.Context, attemptID int64, questionID domain.QuestionID) (domain.AttemptAnswer, bool, error)
	ListAnswers(ctx context.Context, attemptID int64) ([]domain.AttemptAnswer, error)
	// CompleteAttempt reports false when the attempt was already completed.
	CompleteAttempt(ctx context.Context, attemptID int64, tally domain.Tally, completedAt time.Time) (bool, error)
	UserStats(ctx context.Context, userID string) (domain.UserStats, error)
	RecentAttempts(ctx context.Context, userID string, limit int) ([]domain.Attempt, error)
}

// QuestionSetCache holds randomized question sets per user and key (in-memory, Redis).
// Entries may vanish at any time; callers regenerate on a miss.
type QuestionSetCache interface {
	Get(ctx context.Context, userID, key string) (QuestionSet, bool, error)
	Put(ctx context.Context, set QuestionSet) error
	Delete(ctx context.Context, userID, key string) error
}

// QuizBank serves canonical quiz content.
type QuizBank interface {
	GetQuizByID(ctx context.Context, quizID string) (domain.QuizDefinition, error)
	ListCatalog(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Randomizer hands out freshly shuffled copies of canonical quizzes.
type Randomizer interface {
	GetRandomizedQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error)
	GetRandomizedQuizByID(ctx context.Context, quizID string) (domain.QuizDefinition, error)
}

// ChallengeLoader reads the coding challenge catalog.
type ChallengeLoader interface {
	LoadChallenges(ctx context.Context) ([]domain.Challenge, error)
}

// SubmissionStore keeps coding submissions.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, sub *domain.Submission) error
	ListSubmissions(ctx context.Context, userID, challengeID string) ([]domain.Submission, error)
}
