package bank

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"codemcq-service/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches a quiz document from a backing store (files, document DB).
// It returns domain.ErrQuizNotFound when the pair has no document and wraps
// domain.ErrMalformedQuiz when the document fails validation.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error)
}

// Bank is the read-only question bank. Canonical quizzes are cached with TTL
// and the catalog is cached until InvalidateCatalog is called.
type Bank struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu      sync.RWMutex
	cache   map[string]cachedQuiz
	catalog []domain.CatalogEntry
}

type cachedQuiz struct {
	quiz      domain.QuizDefinition
	expiresAt time.Time
}

// New builds a bank over loader. A non-positive ttl keeps quizzes until InvalidateCatalog.
func New(loader QuizLoader, ttl time.Duration) *Bank {
	return &Bank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

// LoadQuiz returns the canonical quiz for a pair. Missing or malformed
// documents are reported as domain.ErrQuizNotFound.
func (b *Bank) LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error) {
	lang, ok := domain.ResolveLanguage(language)
	lvl := domain.Normalise(level)
	if !ok || !domain.IsKnownLevel(lvl) {
		return domain.QuizDefinition{}, domain.ErrQuizNotFound
	}
	key := domain.QuizKey(lang, lvl)

	if quiz, ok := b.cached(key); ok {
		return quiz, nil
	}

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		if quiz, ok := b.cached(key); ok {
			return quiz, nil
		}

		quiz, err := b.loader.LoadQuiz(ctx, lang, lvl)
		if err != nil {
			return domain.QuizDefinition{}, err
		}
		if !resolvesTo(quiz.ID, lang, lvl) {
			if quiz.ID != "" {
				log.WithFields(log.Fields{"quiz_id": quiz.ID, "key": key}).Warn("quiz_id does not resolve to its pair, using key")
			}
			quiz.ID = key
		}
		quiz.Language = lang
		quiz.Level = lvl

		b.mu.Lock()
		b.cache[key] = cachedQuiz{quiz: quiz, expiresAt: b.clock().Add(b.ttlWithJitter())}
		b.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrMalformedQuiz) {
			log.WithFields(log.Fields{"language": lang, "level": lvl}).WithError(err).Warn("skipping malformed quiz")
			return domain.QuizDefinition{}, domain.ErrQuizNotFound
		}
		if errors.Is(err, domain.ErrQuizNotFound) {
			return domain.QuizDefinition{}, domain.ErrQuizNotFound
		}
		return domain.QuizDefinition{}, fmt.Errorf("load quiz %s: %w", key, err)
	}
	return result.(domain.QuizDefinition), nil
}

// GetQuizByID resolves "<language>_<level>" ids, tolerating alias language codes.
func (b *Bank) GetQuizByID(ctx context.Context, quizID string) (domain.QuizDefinition, error) {
	language, level, ok := domain.SplitQuizID(quizID)
	if !ok {
		return domain.QuizDefinition{}, domain.ErrQuizNotFound
	}
	return b.LoadQuiz(ctx, language, level)
}

// ListCatalog probes every known (language, level) pair. Missing or unreadable
// pairs are skipped.
func (b *Bank) ListCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	b.mu.RLock()
	if b.catalog != nil {
		out := b.catalog
		b.mu.RUnlock()
		return out, nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do("catalog", func() (interface{}, error) {
		entries := make([]domain.CatalogEntry, 0)
		for _, language := range domain.Languages {
			for _, level := range domain.Levels {
				quiz, err := b.LoadQuiz(ctx, language, level)
				if errors.Is(err, domain.ErrQuizNotFound) {
					continue
				}
				if err != nil {
					log.WithFields(log.Fields{"language": language, "level": level}).WithError(err).Warn("skipping unreadable quiz")
					continue
				}
				entries = append(entries, catalogEntry(quiz, language, level))
			}
		}
		b.mu.Lock()
		b.catalog = entries
		b.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CatalogEntry), nil
}

// InvalidateCatalog drops the catalog and every cached quiz so changed data is re-read.
func (b *Bank) InvalidateCatalog() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = nil
	b.cache = make(map[string]cachedQuiz)
}

func (b *Bank) cached(key string) (domain.QuizDefinition, bool) {
	now := b.clock()
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.cache[key]
	if !ok || (b.ttl > 0 && !entry.expiresAt.After(now)) {
		return domain.QuizDefinition{}, false
	}
	return entry.quiz, true
}

// resolvesTo reports whether quizID maps back to (language, level) through GetQuizByID.
func resolvesTo(quizID, language, level string) bool {
	rawLang, lvl, ok := domain.SplitQuizID(quizID)
	if !ok || lvl != level {
		return false
	}
	lang, ok := domain.ResolveLanguage(rawLang)
	return ok && lang == language
}

func catalogEntry(quiz domain.QuizDefinition, language, level string) domain.CatalogEntry {
	quiz.Language, quiz.Level = language, level
	duration := quiz.DurationMinutes
	if duration <= 0 {
		duration = domain.DefaultDurationMinutes
	}
	difficulty := quiz.Difficulty
	if difficulty == "" {
		difficulty = level
	}
	return domain.CatalogEntry{
		ID:              quiz.ID,
		Language:        language,
		LanguageLabel:   domain.LanguageLabel(language),
		Level:           level,
		Title:           quiz.DisplayTitle(),
		Description:     quiz.Description,
		DurationMinutes: duration,
		Difficulty:      difficulty,
		QuestionsCount:  len(quiz.Questions),
	}
}

func (b *Bank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
