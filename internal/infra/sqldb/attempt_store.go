package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codemcq-service/internal/domain"
	"github.com/uptrace/bun"
)

// AttemptStore persists attempts and answers through bun (Postgres or SQLite).
type AttemptStore struct {
	db *bun.DB
}

func NewAttemptStore(db *bun.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	row := &AttemptRow{
		UserID:    attempt.UserID,
		QuizID:    attempt.QuizID,
		StartedAt: attempt.StartedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	attempt.ID = row.ID
	return nil
}

// GetAttempt returns the attempt only when it is owned by userID.
func (s *AttemptStore) GetAttempt(ctx context.Context, attemptID int64, userID string) (domain.Attempt, error) {
	var row AttemptRow
	err := s.db.NewSelect().Model(&row).
		Where("id = ?", attemptID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("select attempt: %w", err)
	}
	return row.toDomain(), nil
}

// UpsertAnswer inserts or updates the single answer row of (attempt, question).
func (s *AttemptStore) UpsertAnswer(ctx context.Context, answer domain.AttemptAnswer) error {
	row := &AnswerRow{
		AttemptID:        answer.AttemptID,
		QuizID:           answer.QuizID,
		QuestionID:       answer.QuestionID.String(),
		SelectedOptionID: answer.SelectedOptionID,
		IsCorrect:        answer.IsCorrect,
		AnsweredAt:       answer.AnsweredAt,
	}
	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (attempt_id, question_id) DO UPDATE").
		Set("selected_option_id = EXCLUDED.selected_option_id").
		Set("is_correct = EXCLUDED.is_correct").
		Set("answered_at = EXCLUDED.answered_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	return nil
}

func (s *AttemptStore) GetAnswer(ctx context.Context, attemptID int64, questionID domain.QuestionID) (domain.AttemptAnswer, bool, error) {
	var row AnswerRow
	err := s.db.NewSelect().Model(&row).
		Where("attempt_id = ?", attemptID).
		Where("question_id = ?", questionID.String()).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AttemptAnswer{}, false, nil
	}
	if err != nil {
		return domain.AttemptAnswer{}, false, fmt.Errorf("select answer: %w", err)
	}
	return row.toDomain(), true, nil
}

func (s *AttemptStore) ListAnswers(ctx context.Context, attemptID int64) ([]domain.AttemptAnswer, error) {
	var rows []AnswerRow
	if err := s.db.NewSelect().Model(&rows).Where("attempt_id = ?", attemptID).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select answers: %w", err)
	}
	out := make([]domain.AttemptAnswer, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// CompleteAttempt writes the aggregates once; it reports false when the
// attempt had already been completed by an earlier call.
func (s *AttemptStore) CompleteAttempt(ctx context.Context, attemptID int64, tally domain.Tally, completedAt time.Time) (bool, error) {
	res, err := s.db.NewUpdate().Model((*AttemptRow)(nil)).
		Set("score = ?", tally.Correct).
		Set("completed_at = ?", completedAt).
		Set("total_correct = ?", tally.Correct).
		Set("total_wrong = ?", tally.Wrong).
		Set("total_unanswered = ?", tally.Unanswered).
		Where("id = ?", attemptID).
		Where("completed_at IS NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("complete attempt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *AttemptStore) UserStats(ctx context.Context, userID string) (domain.UserStats, error) {
	var row statsRow
	err := s.db.NewSelect().Model((*AttemptRow)(nil)).
		ColumnExpr("COUNT(*) AS total_attempts").
		ColumnExpr("COALESCE(MAX(score), 0) AS best_score").
		ColumnExpr("COALESCE(AVG(score), 0) AS average_score").
		Where("user_id = ?", userID).
		Scan(ctx, &row)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("select stats: %w", err)
	}
	return domain.UserStats{
		TotalAttempts: row.TotalAttempts,
		BestScore:     row.BestScore,
		AverageScore:  row.AverageScore,
	}, nil
}

// RecentAttempts orders by completion time, falling back to start time for open attempts.
func (s *AttemptStore) RecentAttempts(ctx context.Context, userID string, limit int) ([]domain.Attempt, error) {
	var rows []AttemptRow
	err := s.db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("COALESCE(completed_at, started_at) DESC").
		OrderExpr("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select recent attempts: %w", err)
	}
	out := make([]domain.Attempt, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
