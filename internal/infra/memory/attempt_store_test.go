package memory

import (
	"context"
	"testing"
	"time"

	"codemcq-service/internal/domain"
)

func TestAttemptStoreOwnership(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()

	attempt := domain.Attempt{UserID: "u1", QuizID: "python_easy", StartedAt: time.Now()}
	if err := store.CreateAttempt(ctx, &attempt); err != nil {
		t.Fatalf("create: %v", err)
	}
	if attempt.ID == 0 {
		t.Fatalf("expected id assigned")
	}
	if _, err := store.GetAttempt(ctx, attempt.ID, "u1"); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := store.GetAttempt(ctx, attempt.ID, "u2"); err != domain.ErrAttemptNotFound {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}

func TestAttemptStoreUpsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	attempt := domain.Attempt{UserID: "u1", QuizID: "python_easy", StartedAt: time.Now()}
	_ = store.CreateAttempt(ctx, &attempt)

	first, second := "a", "b"
	_ = store.UpsertAnswer(ctx, domain.AttemptAnswer{AttemptID: attempt.ID, QuestionID: "1", SelectedOptionID: &first})
	_ = store.UpsertAnswer(ctx, domain.AttemptAnswer{AttemptID: attempt.ID, QuestionID: "2", SelectedOptionID: &first})
	_ = store.UpsertAnswer(ctx, domain.AttemptAnswer{AttemptID: attempt.ID, QuestionID: "1", SelectedOptionID: &second, IsCorrect: true})

	answers, err := store.ListAnswers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].QuestionID != "1" || *answers[0].SelectedOptionID != "b" || !answers[0].IsCorrect {
		t.Fatalf("expected latest selection for question 1 first, got %+v", answers[0])
	}

	second = "mutated"
	got, ok, _ := store.GetAnswer(ctx, attempt.ID, "1")
	if !ok || *got.SelectedOptionID != "b" {
		t.Fatalf("stored answer aliases caller memory: %+v", got)
	}
}

func TestAttemptStoreCompleteOnce(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	attempt := domain.Attempt{UserID: "u1", QuizID: "python_easy", StartedAt: time.Now()}
	_ = store.CreateAttempt(ctx, &attempt)

	ok, err := store.CompleteAttempt(ctx, attempt.ID, domain.Tally{Correct: 3, Wrong: 1, Unanswered: 1}, time.Now())
	if err != nil || !ok {
		t.Fatalf("first complete: %v %v", ok, err)
	}
	ok, err = store.CompleteAttempt(ctx, attempt.ID, domain.Tally{Correct: 5}, time.Now())
	if err != nil || ok {
		t.Fatalf("second complete should be a no-op: %v %v", ok, err)
	}
	got, _ := store.GetAttempt(ctx, attempt.ID, "u1")
	if got.Score != 3 || got.TotalWrong != 1 || got.TotalUnanswered != 1 || !got.Completed() {
		t.Fatalf("unexpected aggregates: %+v", got)
	}
}

func TestAttemptStoreStatsAndRecent(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	var ids []int64
	for i, score := range []int{2, 4, 3} {
		a := domain.Attempt{UserID: "u1", QuizID: "python_easy", StartedAt: base.Add(time.Duration(i) * time.Hour)}
		_ = store.CreateAttempt(ctx, &a)
		_, _ = store.CompleteAttempt(ctx, a.ID, domain.Tally{Correct: score}, base.Add(time.Duration(i)*time.Hour+time.Minute))
		ids = append(ids, a.ID)
	}
	open := domain.Attempt{UserID: "u1", QuizID: "go_easy", StartedAt: base.Add(5 * time.Hour)}
	_ = store.CreateAttempt(ctx, &open)
	other := domain.Attempt{UserID: "u2", QuizID: "go_easy", StartedAt: base}
	_ = store.CreateAttempt(ctx, &other)

	stats, _ := store.UserStats(ctx, "u1")
	if stats.TotalAttempts != 4 || stats.BestScore != 4 || stats.AverageScore != 2.25 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	recent, _ := store.RecentAttempts(ctx, "u1", 2)
	if len(recent) != 2 || recent[0].ID != open.ID || recent[1].ID != ids[2] {
		t.Fatalf("unexpected recent order: %+v", recent)
	}
}
