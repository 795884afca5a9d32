package bank

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codemcq-service/internal/domain"
	"codemcq-service/internal/infra/memory"
)

func TestBankCachesQuizzes(t *testing.T) {
	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(sampleQuiz("python", "easy"))}
	b := New(loader, time.Minute)

	if _, err := b.LoadQuiz(context.Background(), "python", "easy"); err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}
	if _, err := b.GetQuizByID(context.Background(), "py_easy"); err != nil {
		t.Fatalf("load by alias id: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}

	b.InvalidateCatalog()
	if _, err := b.LoadQuiz(context.Background(), "python", "easy"); err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after invalidation, loader calls %d", loader.count())
	}
}

func TestBankExpiresWithTTL(t *testing.T) {
	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(sampleQuiz("java", "hard"))}
	b := New(loader, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.clock = func() time.Time { return now }

	_, _ = b.LoadQuiz(context.Background(), "java", "hard")
	now = now.Add(2 * time.Minute)
	_, _ = b.LoadQuiz(context.Background(), "java", "hard")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestBankMissingAndMalformedAreNotFound(t *testing.T) {
	broken := sampleQuiz("java", "easy")
	broken.Questions[0].Options[1].IsCorrect = false
	b := New(memory.NewStaticQuizLoader(broken), 0)

	cases := []struct{ language, level string }{
		{"java", "easy"},
		{"python", "easy"},
		{"klingon", "easy"},
		{"python", "expert"},
	}
	for _, tc := range cases {
		if _, err := b.LoadQuiz(context.Background(), tc.language, tc.level); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("%s/%s: expected not found, got %v", tc.language, tc.level, err)
		}
	}
	if _, err := b.GetQuizByID(context.Background(), "nounderscore"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found for bad id, got %v", err)
	}
}

func TestListCatalogDefaults(t *testing.T) {
	titled := sampleQuiz("javascript", "easy")
	titled.ID = "js_easy"
	titled.Title = "JS Basics"
	titled.DurationMinutes = 20
	b := New(memory.NewStaticQuizLoader(titled, sampleQuiz("cpp", "medium")), 0)

	catalog, err := b.ListCatalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(catalog))
	}
	byID := map[string]domain.CatalogEntry{}
	for _, entry := range catalog {
		byID[entry.ID] = entry
	}
	js, ok := byID["js_easy"]
	if !ok || js.Title != "JS Basics" || js.DurationMinutes != 20 || js.QuestionsCount != 2 {
		t.Fatalf("unexpected js entry: %+v", js)
	}
	cpp := byID["cpp_medium"]
	if cpp.Title != "C++ Medium Quiz" || cpp.DurationMinutes != 15 || cpp.Difficulty != "medium" || cpp.LanguageLabel != "C++" {
		t.Fatalf("unexpected defaults: %+v", cpp)
	}
}

func TestQuizIDMustResolveToItsPair(t *testing.T) {
	ctx := context.Background()
	dashed := sampleQuiz("python", "easy")
	dashed.ID = "python-easy"
	other := sampleQuiz("java", "hard")
	other.ID = "python_easy"
	b := New(memory.NewStaticQuizLoader(dashed, other), 0)

	cases := []struct{ language, level, want string }{
		{"python", "easy", "python_easy"},
		{"java", "hard", "java_hard"},
	}
	for _, tc := range cases {
		quiz, err := b.LoadQuiz(ctx, tc.language, tc.level)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.language, tc.level, err)
		}
		if quiz.ID != tc.want {
			t.Fatalf("%s/%s: expected id %q, got %q", tc.language, tc.level, tc.want, quiz.ID)
		}
		back, err := b.GetQuizByID(ctx, quiz.ID)
		if err != nil || back.Language != tc.language || back.Level != tc.level {
			t.Fatalf("id %q does not resolve back: %+v %v", quiz.ID, back, err)
		}
	}
}

func TestListCatalogSkipsUnreadablePairs(t *testing.T) {
	loader := failingLoader{
		QuizLoader: memory.NewStaticQuizLoader(sampleQuiz("python", "easy")),
		fail:       domain.QuizKey("java", "easy"),
	}
	b := New(loader, 0)

	catalog, err := b.ListCatalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(catalog) != 1 || catalog[0].ID != "python_easy" {
		t.Fatalf("expected only python_easy, got %+v", catalog)
	}
}

type failingLoader struct {
	QuizLoader
	fail string
}

func (l failingLoader) LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error) {
	if domain.QuizKey(language, level) == l.fail {
		return domain.QuizDefinition{}, errors.New("read quiz: permission denied")
	}
	return l.QuizLoader.LoadQuiz(ctx, language, level)
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

func sampleQuiz(language, level string) domain.QuizDefinition {
	return domain.QuizDefinition{
		Language: language,
		Level:    level,
		Questions: []domain.Question{
			{
				ID:     "1",
				Prompt: "What is 2 + 2?",
				Options: []domain.Option{
					{ID: "a", Text: "3"},
					{ID: "b", Text: "4", IsCorrect: true},
				},
			},
			{
				ID:     "2",
				Prompt: "What is 3 + 3?",
				Options: []domain.Option{
					{ID: "a", Text: "6", IsCorrect: true},
					{ID: "b", Text: "7"},
				},
			},
		},
	}
}
