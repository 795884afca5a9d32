package memory

import (
	"context"
	"sync"
	"time"

	"codemcq-service/internal/app"
)

// QuestionSetCache is an in-memory implementation of app.QuestionSetCache.
// Expired entries are invisible to Get and removed by Sweep.
type QuestionSetCache struct {
	mu   sync.RWMutex
	now  func() time.Time
	sets map[string]app.QuestionSet
}

func NewQuestionSetCache() *QuestionSetCache {
	return NewQuestionSetCacheWithClock(time.Now)
}

// NewQuestionSetCacheWithClock is test-only for deterministic expiry.
func NewQuestionSetCacheWithClock(now func() time.Time) *QuestionSetCache {
	return &QuestionSetCache{now: now, sets: make(map[string]app.QuestionSet)}
}

func (c *QuestionSetCache) Get(_ context.Context, userID, key string) (app.QuestionSet, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.sets[scopedKey(userID, key)]
	if !ok || set.Expired(c.now()) {
		return app.QuestionSet{}, false, nil
	}
	return set, true, nil
}

func (c *QuestionSetCache) Put(_ context.Context, set app.QuestionSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets[scopedKey(set.UserID, set.Key)] = set
	return nil
}

func (c *QuestionSetCache) Delete(_ context.Context, userID, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sets, scopedKey(userID, key))
	return nil
}

// Sweep drops entries expired at now and returns how many were removed.
func (c *QuestionSetCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, set := range c.sets {
		if set.Expired(now) {
			delete(c.sets, k)
			removed++
		}
	}
	return removed
}

// Len is the number of stored entries, expired or not.
func (c *QuestionSetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sets)
}

func scopedKey(userID, key string) string {
	return userID + "|" + key
}
