package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codemcq-service/internal/domain"
	"codemcq-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestQuizCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(sampleQuiz())}
	cache := NewQuizCache(newClient(mr), loader, time.Minute)

	quiz, err := cache.LoadQuiz(context.Background(), "python", "easy")
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	if !mr.Exists("codemcq:quiz:python:easy") {
		t.Fatalf("expected quiz document cached in redis")
	}
	if ttl := mr.TTL("codemcq:quiz:python:easy"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	if _, err := cache.LoadQuiz(context.Background(), "python", "easy"); err != nil {
		t.Fatalf("load quiz 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("codemcq:quiz:python:easy") {
		t.Fatalf("expected key removed by invalidate")
	}
}

func TestQuizCachePassesNotFoundThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewQuizCache(newClient(mr), memory.NewStaticQuizLoader(), time.Minute)
	if _, err := cache.LoadQuiz(context.Background(), "go", "hard"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mr.Exists("codemcq:quiz:go:hard") {
		t.Fatalf("misses must not be cached")
	}
}

type countingLoader struct {
	QuizLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuizLoader.LoadQuiz(ctx, language, level)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
