package sqldb

import (
	"time"

	"codemcq-service/internal/domain"
	"github.com/uptrace/bun"
)

// AttemptRow maps the attempts table.
type AttemptRow struct {
	bun.BaseModel `bun:"table:attempts,alias:a"`

	ID              int64      `bun:"id,pk,autoincrement"`
	UserID          string     `bun:"user_id,notnull"`
	QuizID          string     `bun:"quiz_id,notnull"`
	Score           int        `bun:"score,notnull,default:0"`
	StartedAt       time.Time  `bun:"started_at,notnull"`
	CompletedAt     *time.Time `bun:"completed_at"`
	TotalCorrect    int        `bun:"total_correct,notnull,default:0"`
	TotalWrong      int        `bun:"total_wrong,notnull,default:0"`
	TotalUnanswered int        `bun:"total_unanswered,notnull,default:0"`
}

func (r AttemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:              r.ID,
		UserID:          r.UserID,
		QuizID:          r.QuizID,
		Score:           r.Score,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
		TotalCorrect:    r.TotalCorrect,
		TotalWrong:      r.TotalWrong,
		TotalUnanswered: r.TotalUnanswered,
	}
}

// AnswerRow maps attempt_answers; (attempt_id, question_id) is unique.
type AnswerRow struct {
	bun.BaseModel `bun:"table:attempt_answers,alias:aa"`

	ID               int64     `bun:"id,pk,autoincrement"`
	AttemptID        int64     `bun:"attempt_id,notnull"`
	QuizID           string    `bun:"quiz_id,notnull"`
	QuestionID       string    `bun:"question_id,notnull"`
	SelectedOptionID *string   `bun:"selected_option_id"`
	IsCorrect        bool      `bun:"is_correct,notnull,default:false"`
	AnsweredAt       time.Time `bun:"answered_at,notnull"`
}

func (r AnswerRow) toDomain() domain.AttemptAnswer {
	return domain.AttemptAnswer{
		AttemptID:        r.AttemptID,
		QuizID:           r.QuizID,
		QuestionID:       domain.QuestionID(r.QuestionID),
		SelectedOptionID: r.SelectedOptionID,
		IsCorrect:        r.IsCorrect,
		AnsweredAt:       r.AnsweredAt,
	}
}

// SubmissionRow maps coding_submissions.
type SubmissionRow struct {
	bun.BaseModel `bun:"table:coding_submissions,alias:cs"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull"`
	ChallengeID string    `bun:"challenge_id,notnull"`
	Code        string    `bun:"code,notnull"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
}

type statsRow struct {
	TotalAttempts int     `bun:"total_attempts"`
	BestScore     int     `bun:"best_score"`
	AverageScore  float64 `bun:"average_score"`
}
