package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"codemcq-service/internal/app"
	"codemcq-service/internal/bank"
	"codemcq-service/internal/domain"
	"codemcq-service/internal/infra/memory"
)

func TestDashboardSummarisesHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 6; i++ {
		attempt, err := f.service.Start(ctx, "u1", "python", "easy")
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		correct := "b"
		_, _ = f.service.SubmitAnswer(ctx, attempt.ID, "u1", "1", &correct)
		_, _ = f.service.Finalize(ctx, attempt.ID, "u1")
		f.now = f.now.Add(time.Minute)
	}
	_, _ = f.service.Start(ctx, "u2", "python", "easy")

	dash, err := app.NewDashboardService(f.attempts, f.quizzes).Dashboard(ctx, "u1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Stats.TotalAttempts != 6 || dash.Stats.BestScore != 1 || dash.Stats.AverageScore != 1 {
		t.Fatalf("unexpected stats: %+v", dash.Stats)
	}
	if len(dash.RecentAttempts) != 5 {
		t.Fatalf("expected 5 recent attempts, got %d", len(dash.RecentAttempts))
	}
	if dash.RecentAttempts[0].QuizTitle != "Python Basics" || dash.RecentAttempts[0].Status != domain.AttemptCompleted {
		t.Fatalf("unexpected summary: %+v", dash.RecentAttempts[0])
	}
	if len(dash.Catalog) != 1 {
		t.Fatalf("expected one catalog entry, got %d", len(dash.Catalog))
	}
}

func TestChallengeService(t *testing.T) {
	ctx := context.Background()
	loader := memory.NewStaticChallengeLoader(
		domain.Challenge{ID: "py-fizzbuzz", Title: "FizzBuzz", Language: "Python", Level: "easy"},
		domain.Challenge{ID: "go-lru", Title: "LRU cache", Language: "go", Level: "hard"},
	)
	submissions := memory.NewSubmissionStore()
	svc := app.NewChallengeService(loader, submissions)

	list, _ := svc.List(ctx, "python", "")
	if len(list) != 1 || list[0].ID != "py-fizzbuzz" {
		t.Fatalf("unexpected filter result: %+v", list)
	}
	all, _ := svc.List(ctx, "", "")
	if len(all) != 2 {
		t.Fatalf("expected all challenges, got %d", len(all))
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected challenge not found, got %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", "missing", "print(1)"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected challenge not found, got %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", "go-lru", "   "); !errors.Is(err, domain.ErrEmptySubmission) {
		t.Fatalf("expected empty submission error, got %v", err)
	}

	code := "package main\n\nfunc main() { panic(\"never run\") }\n"
	sub, err := svc.Submit(ctx, "u1", "go-lru", code)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.ID == 0 || sub.Code != code {
		t.Fatalf("expected verbatim stored submission, got %+v", sub)
	}
	history, _ := svc.Submissions(ctx, "u1", "go-lru")
	if len(history) != 1 || history[0].Code != code {
		t.Fatalf("unexpected history: %+v", history)
	}
}

var _ app.QuizBank = (*bank.Bank)(nil)
