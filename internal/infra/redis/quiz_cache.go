package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"codemcq-service/internal/domain"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz content from a backing store (files, document DB).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error)
}

// QuizCache shares loaded quiz documents across instances and falls back to a loader on miss.
// Documents are stored as: SET codemcq:quiz:{language}:{level} <json>
type QuizCache struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuizCache(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error) {
	key := c.key(language, level)
	if quiz, ok := c.cached(ctx, key); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := c.cached(ctx, key); ok {
			return quiz, nil
		}

		quiz, err := c.loader.LoadQuiz(ctx, language, level)
		if err != nil {
			return domain.QuizDefinition{}, err
		}

		data, err := json.Marshal(quiz)
		if err == nil {
			err = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("quiz cache write failed")
		}
		return quiz, nil
	})
	if err != nil {
		return domain.QuizDefinition{}, err
	}
	return result.(domain.QuizDefinition).Clone(), nil
}

// Invalidate drops every cached quiz document.
func (c *QuizCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "codemcq:quiz:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *QuizCache) cached(ctx context.Context, key string) (domain.QuizDefinition, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.QuizDefinition{}, false
	}
	var quiz domain.QuizDefinition
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.QuizDefinition{}, false
	}
	return quiz, true
}

func (c *QuizCache) key(language, level string) string {
	return "codemcq:quiz:" + domain.Normalise(language) + ":" + domain.Normalise(level)
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
