package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studyhall-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// countingSource records how many times the backing loader was hit.
type countingSource struct {
	mu    sync.Mutex
	calls int
	quiz  *models.Quiz
}

func (s *countingSource) LoadQuiz(_ context.Context, quizID uint) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.quiz == nil || s.quiz.ID != quizID {
		return nil, models.ErrQuizNotFound
	}
	return s.quiz, nil
}

func (s *countingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func sampleQuiz() *models.Quiz {
	return &models.Quiz{
		ID:       5,
		CourseID: 2,
		Course:   models.Course{ID: 2, UserID: 9},
		Title:    "Networking",
		Questions: []models.Question{
			{
				ID:       50,
				QuizID:   5,
				Text:     "Default HTTPS port?",
				OrderNum: 1,
				Options: []models.Option{
					{ID: 501, QuestionID: 50, Text: "443", OptionIndex: 0, IsCorrect: true},
					{ID: 502, QuestionID: 50, Text: "80", OptionIndex: 1},
				},
			},
		},
	}
}

func TestMemoryCacheHitAndExpiry(t *testing.T) {
	source := &countingSource{quiz: sampleQuiz()}
	c := NewMemoryQuizCache(source, time.Minute)

	now := time.Now()
	c.clock = func() time.Time { return now }

	ctx := context.Background()
	if _, err := c.LoadQuiz(ctx, 5); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := c.LoadQuiz(ctx, 5); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got := source.count(); got != 1 {
		t.Errorf("source hit %d times, want 1 (second load served from cache)", got)
	}

	// Past the jittered TTL the entry must be refetched.
	now = now.Add(2 * time.Minute)
	if _, err := c.LoadQuiz(ctx, 5); err != nil {
		t.Fatalf("load after expiry: %v", err)
	}
	if got := source.count(); got != 2 {
		t.Errorf("source hit %d times after expiry, want 2", got)
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	source := &countingSource{quiz: sampleQuiz()}
	c := NewMemoryQuizCache(source, time.Minute)
	ctx := context.Background()

	if _, err := c.LoadQuiz(ctx, 5); err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Invalidate(ctx, 5)
	if _, err := c.LoadQuiz(ctx, 5); err != nil {
		t.Fatalf("load after invalidate: %v", err)
	}
	if got := source.count(); got != 2 {
		t.Errorf("source hit %d times, want 2 after invalidation", got)
	}
}

func TestMemoryCacheMissError(t *testing.T) {
	source := &countingSource{}
	c := NewMemoryQuizCache(source, time.Minute)

	if _, err := c.LoadQuiz(context.Background(), 404); !errors.Is(err, models.ErrQuizNotFound) {
		t.Errorf("got %v, want ErrQuizNotFound", err)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	source := &countingSource{quiz: sampleQuiz()}
	c := NewRedisQuizCache(client, source, time.Minute)
	ctx := context.Background()

	first, err := c.LoadQuiz(ctx, 5)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	second, err := c.LoadQuiz(ctx, 5)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got := source.count(); got != 1 {
		t.Errorf("source hit %d times, want 1 (second load from redis)", got)
	}

	// The snapshot must survive the round trip intact, correctness included.
	if second.Title != first.Title || second.Course.UserID != 9 {
		t.Errorf("decoded quiz = %+v, want title %q owned by user 9", second, first.Title)
	}
	if len(second.Questions) != 1 || len(second.Questions[0].Options) != 2 {
		t.Fatalf("decoded shape = %d questions, want 1 with 2 options", len(second.Questions))
	}
	correct := second.Questions[0].CorrectOption()
	if correct == nil || correct.ID != 501 {
		t.Errorf("correct option = %+v, want option 501", correct)
	}
}

func TestRedisCacheTTLAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	source := &countingSource{quiz: sampleQuiz()}
	c := NewRedisQuizCache(client, source, time.Minute)
	ctx := context.Background()

	if _, err := c.LoadQuiz(ctx, 5); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !mr.Exists("quiz:5:snapshot") {
		t.Fatal("expected quiz:5:snapshot key after load")
	}

	// Jitter keeps the TTL within [ttl, 1.1*ttl].
	ttl := mr.TTL("quiz:5:snapshot")
	if ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Errorf("ttl = %v, want within [1m, 1m6s]", ttl)
	}

	c.Invalidate(ctx, 5)
	if mr.Exists("quiz:5:snapshot") {
		t.Error("expected snapshot key deleted after invalidate")
	}

	mr.FastForward(2 * time.Minute)
	if _, err := c.LoadQuiz(ctx, 5); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := source.count(); got != 2 {
		t.Errorf("source hit %d times, want 2 after invalidation", got)
	}
}

func TestTTLJitterBounds(t *testing.T) {
	c := NewMemoryQuizCache(&countingSource{}, 10*time.Minute)
	for i := 0; i < 100; i++ {
		got := ttlWithJitter(c.rnd, 10*time.Minute)
		if got < 10*time.Minute || got > 11*time.Minute {
			t.Fatalf("jittered ttl = %v, want within [10m, 11m]", got)
		}
	}
	if got := ttlWithJitter(c.rnd, 0); got != 0 {
		t.Errorf("zero ttl jittered to %v, want 0", got)
	}
}
