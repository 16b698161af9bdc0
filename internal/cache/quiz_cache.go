package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// MemoryQuizCache caches quiz snapshots with a TTL in front of a slower
// source, de-duplicating concurrent misses through singleflight.
type MemoryQuizCache struct {
	source repository.QuizSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[uint]cachedQuiz
}

type cachedQuiz struct {
	quiz      *models.Quiz
	expiresAt time.Time
}

func NewMemoryQuizCache(source repository.QuizSource, ttl time.Duration) *MemoryQuizCache {
	return &MemoryQuizCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[uint]cachedQuiz),
	}
}

func (c *MemoryQuizCache) LoadQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(fmt.Sprint(quizID), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.source.LoadQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[quizID] = cachedQuiz{quiz: quiz, expiresAt: now.Add(ttlWithJitter(c.rnd, c.ttl))}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Quiz), nil
}

// Invalidate drops a quiz snapshot, called after authoring writes.
func (c *MemoryQuizCache) Invalidate(_ context.Context, quizID uint) {
	c.mu.Lock()
	delete(c.cache, quizID)
	c.mu.Unlock()
}

// RedisQuizCache stores quiz snapshots as JSON blobs under quiz:{id}:snapshot
// and falls back to the source on a miss.
type RedisQuizCache struct {
	client *redis.Client
	source repository.QuizSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewRedisQuizCache(client *redis.Client, source repository.QuizSource, ttl time.Duration) *RedisQuizCache {
	return &RedisQuizCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *RedisQuizCache) LoadQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	key := snapshotKey(quizID)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if quiz, ok := decodeSnapshot(raw); ok {
			return quiz, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			if quiz, ok := decodeSnapshot(raw); ok {
				return quiz, nil
			}
		}

		quiz, err := c.source.LoadQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(snapshotFromQuiz(quiz)); err == nil {
			c.client.Set(ctx, key, raw, ttlWithJitter(c.rnd, c.ttl))
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Quiz), nil
}

func (c *RedisQuizCache) Invalidate(ctx context.Context, quizID uint) {
	c.client.Del(ctx, snapshotKey(quizID))
}

func snapshotKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:snapshot", quizID)
}

// quizSnapshot is the wire form of a cached quiz. Option correctness is part
// of the snapshot because the attempt engine grades from it; the cache is
// server-side only.
type quizSnapshot struct {
	ID        uint               `json:"id"`
	CourseID  uint               `json:"course_id"`
	OwnerID   uint               `json:"owner_id"`
	Title     string             `json:"title"`
	Questions []questionSnapshot `json:"questions"`
}

type questionSnapshot struct {
	ID          uint             `json:"id"`
	Text        string           `json:"text"`
	Explanation string           `json:"explanation,omitempty"`
	OrderNum    int              `json:"order_num"`
	Options     []optionSnapshot `json:"options"`
}

type optionSnapshot struct {
	ID          uint   `json:"id"`
	Text        string `json:"text"`
	OptionIndex int    `json:"option_index"`
	IsCorrect   bool   `json:"is_correct"`
}

func snapshotFromQuiz(quiz *models.Quiz) quizSnapshot {
	snap := quizSnapshot{
		ID:       quiz.ID,
		CourseID: quiz.CourseID,
		OwnerID:  quiz.Course.UserID,
		Title:    quiz.Title,
	}
	for _, q := range quiz.Questions {
		qs := questionSnapshot{ID: q.ID, Text: q.Text, Explanation: q.Explanation, OrderNum: q.OrderNum}
		for _, o := range q.Options {
			qs.Options = append(qs.Options, optionSnapshot{
				ID: o.ID, Text: o.Text, OptionIndex: o.OptionIndex, IsCorrect: o.IsCorrect,
			})
		}
		snap.Questions = append(snap.Questions, qs)
	}
	return snap
}

func decodeSnapshot(raw []byte) (*models.Quiz, bool) {
	var snap quizSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false
	}
	quiz := &models.Quiz{
		ID:       snap.ID,
		CourseID: snap.CourseID,
		Course:   models.Course{ID: snap.CourseID, UserID: snap.OwnerID},
		Title:    snap.Title,
	}
	for _, qs := range snap.Questions {
		q := models.Question{ID: qs.ID, QuizID: snap.ID, Text: qs.Text, Explanation: qs.Explanation, OrderNum: qs.OrderNum}
		for _, os := range qs.Options {
			q.Options = append(q.Options, models.Option{
				ID: os.ID, QuestionID: qs.ID, Text: os.Text, OptionIndex: os.OptionIndex, IsCorrect: os.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz, true
}

// ttlWithJitter spreads expirations by up to 10% to avoid synchronized misses.
func ttlWithJitter(rnd *rand.Rand, ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitterMax := int64(ttl) / 10
	return ttl + time.Duration(rnd.Int63n(jitterMax+1))
}
