package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codemcq-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// QuestionSetCache stores randomized question sets as JSON strings with a TTL.
// Keys are scoped per user: codemcq:session:{userID}:{key}.
type QuestionSetCache struct {
	client *redis.Client
	now    func() time.Time
}

func NewQuestionSetCache(client *redis.Client) *QuestionSetCache {
	return &QuestionSetCache{client: client, now: time.Now}
}

func (c *QuestionSetCache) Get(ctx context.Context, userID, key string) (app.QuestionSet, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.QuestionSet{}, false, nil
	}
	if err != nil {
		return app.QuestionSet{}, false, fmt.Errorf("redis get question set: %w", err)
	}
	var set app.QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		// unreadable entries are dropped and regenerated by the caller
		_ = c.client.Del(ctx, c.key(userID, key)).Err()
		return app.QuestionSet{}, false, nil
	}
	return set, true, nil
}

func (c *QuestionSetCache) Put(ctx context.Context, set app.QuestionSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode question set: %w", err)
	}
	ttl := time.Duration(0)
	if !set.ExpiresAt.IsZero() {
		ttl = set.ExpiresAt.Sub(c.now())
		if ttl <= 0 {
			return nil
		}
	}
	if err := c.client.Set(ctx, c.key(set.UserID, set.Key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set question set: %w", err)
	}
	return nil
}

func (c *QuestionSetCache) Delete(ctx context.Context, userID, key string) error {
	if err := c.client.Del(ctx, c.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("redis del question set: %w", err)
	}
	return nil
}

func (c *QuestionSetCache) key(userID, key string) string {
	return "codemcq:session:" + userID + ":" + key
}
