package opentdb

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

// CachedSource caches fetched question sets with a TTL so back-to-back
// sessions do not hammer the trivia API. Concurrent misses for the same
// key collapse into one upstream call.
type CachedSource struct {
	source game.QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

// NewCachedSource wraps a source with TTL caching.
func NewCachedSource(source game.QuestionSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

// Fetch returns the cached set for the category/difficulty pair or loads it.
func (c *CachedSource) Fetch(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error) {
	key := category + "|" + string(difficulty)
	return c.get(ctx, key, func() ([]domain.Question, error) {
		return c.source.Fetch(ctx, category, difficulty)
	})
}

// FetchDaily caches the mixed daily set under its own key.
func (c *CachedSource) FetchDaily(ctx context.Context) ([]domain.Question, error) {
	return c.get(ctx, "daily", func() ([]domain.Question, error) {
		return c.source.FetchDaily(ctx)
	})
}

func (c *CachedSource) get(_ context.Context, key string, load func() ([]domain.Question, error)) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedSet{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *CachedSource) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
