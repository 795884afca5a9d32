package sqldb

import (
	"context"
	"fmt"

	"codemcq-service/internal/domain"
	"github.com/uptrace/bun"
)

// SubmissionStore keeps coding challenge submissions verbatim.
type SubmissionStore struct {
	db *bun.DB
}

func NewSubmissionStore(db *bun.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	row := &SubmissionRow{
		UserID:      sub.UserID,
		ChallengeID: sub.ChallengeID,
		Code:        sub.Code,
		SubmittedAt: sub.SubmittedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	sub.ID = row.ID
	return nil
}

func (s *SubmissionStore) ListSubmissions(ctx context.Context, userID, challengeID string) ([]domain.Submission, error) {
	var rows []SubmissionRow
	err := s.db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		Where("challenge_id = ?", challengeID).
		Order("submitted_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	out := make([]domain.Submission, len(rows))
	for i, row := range rows {
		out[i] = domain.Submission{
			ID:          row.ID,
			UserID:      row.UserID,
			ChallengeID: row.ChallengeID,
			Code:        row.Code,
			SubmittedAt: row.SubmittedAt,
		}
	}
	return out, nil
}
