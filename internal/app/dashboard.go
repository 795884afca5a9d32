package app

import (
	"context"

	"codemcq-service/internal/domain"
)

const recentAttemptsLimit = 5

// AttemptHistory is the read side of AttemptStore used by the dashboard.
type AttemptHistory interface {
	UserStats(ctx context.Context, userID string) (domain.UserStats, error)
	RecentAttempts(ctx context.Context, userID string, limit int) ([]domain.Attempt, error)
}

// DashboardService assembles the landing summary of a user.
type DashboardService struct {
	history AttemptHistory
	quizzes QuizBank
}

func NewDashboardService(history AttemptHistory, quizzes QuizBank) *DashboardService {
	return &DashboardService{history: history, quizzes: quizzes}
}

func (s *DashboardService) Dashboard(ctx context.Context, userID string) (domain.Dashboard, error) {
	stats, err := s.history.UserStats(ctx, userID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	recent, err := s.history.RecentAttempts(ctx, userID, recentAttemptsLimit)
	if err != nil {
		return domain.Dashboard{}, err
	}
	catalog, err := s.quizzes.ListCatalog(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}

	titles := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		titles[entry.ID] = entry.Title
	}
	summaries := make([]domain.AttemptSummary, len(recent))
	for i, attempt := range recent {
		summaries[i] = domain.Summarize(attempt, titles[attempt.QuizID])
	}

	return domain.Dashboard{
		UserID:         userID,
		Stats:          stats,
		RecentAttempts: summaries,
		Catalog:        catalog,
	}, nil
}
