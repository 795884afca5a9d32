package app

import (
	"context"
	"strings"
	"time"

	"codemcq-service/internal/domain"
	log "github.com/sirupsen/logrus"
)

// ChallengeService lists coding challenges and stores submissions verbatim.
// Submitted code is never executed.
type ChallengeService struct {
	challenges  ChallengeLoader
	submissions SubmissionStore
	now         func() time.Time
}

func NewChallengeService(challenges ChallengeLoader, submissions SubmissionStore) *ChallengeService {
	return &ChallengeService{challenges: challenges, submissions: submissions, now: time.Now}
}

// List filters by language and level; empty filters match everything.
func (s *ChallengeService) List(ctx context.Context, language, level string) ([]domain.Challenge, error) {
	all, err := s.challenges.LoadChallenges(ctx)
	if err != nil {
		return nil, err
	}
	language, level = domain.Normalise(language), domain.Normalise(level)
	out := make([]domain.Challenge, 0, len(all))
	for _, c := range all {
		if language != "" && domain.Normalise(c.Language) != language {
			continue
		}
		if level != "" && domain.Normalise(c.Level) != level {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *ChallengeService) Get(ctx context.Context, id string) (domain.Challenge, error) {
	all, err := s.challenges.LoadChallenges(ctx)
	if err != nil {
		return domain.Challenge{}, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Challenge{}, domain.ErrChallengeNotFound
}

// Submit stores code for an existing challenge.
func (s *ChallengeService) Submit(ctx context.Context, userID, challengeID, code string) (domain.Submission, error) {
	if strings.TrimSpace(code) == "" {
		return domain.Submission{}, domain.ErrEmptySubmission
	}
	if _, err := s.Get(ctx, challengeID); err != nil {
		return domain.Submission{}, err
	}
	sub := domain.Submission{UserID: userID, ChallengeID: challengeID, Code: code, SubmittedAt: s.now()}
	if err := s.submissions.SaveSubmission(ctx, &sub); err != nil {
		return domain.Submission{}, err
	}
	log.WithFields(log.Fields{"user_id": userID, "challenge_id": challengeID, "bytes": len(code)}).Info("submission stored")
	return sub, nil
}

// Submissions lists a user's earlier submissions for a challenge, newest first.
func (s *ChallengeService) Submissions(ctx context.Context, userID, challengeID string) ([]domain.Submission, error) {
	if _, err := s.Get(ctx, challengeID); err != nil {
		return nil, err
	}
	return s.submissions.ListSubmissions(ctx, userID, challengeID)
}
