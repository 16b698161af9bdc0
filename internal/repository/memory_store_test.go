package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyhall-backend/internal/models"
)

func seedAttempt(t *testing.T, store *MemoryAttemptStore, userID uint, startedAt time.Time) *models.Attempt {
	t.Helper()
	attempt := &models.Attempt{
		QuizID:         1,
		UserID:         userID,
		Status:         models.AttemptStatusInProgress,
		TotalQuestions: 2,
		StartedAt:      startedAt,
		Questions: []models.AttemptQuestion{
			{QuestionID: 10, Position: 0},
			{QuestionID: 20, Position: 1},
		},
	}
	if err := store.Create(context.Background(), attempt); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return attempt
}

func TestMemoryStoreCreateAssignsIDs(t *testing.T) {
	store := NewMemoryAttemptStore()
	a := seedAttempt(t, store, 1, time.Now())
	b := seedAttempt(t, store, 1, time.Now())

	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Errorf("ids = (%d, %d), want distinct non-zero", a.ID, b.ID)
	}
	for _, aq := range a.Questions {
		if aq.AttemptID != a.ID {
			t.Errorf("run row attempt id = %d, want %d", aq.AttemptID, a.ID)
		}
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryAttemptStore()
	seeded := seedAttempt(t, store, 1, time.Now())
	ctx := context.Background()

	got, err := store.Get(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Mutating the returned value must not leak into the store.
	got.CurrentIndex = 99
	got.Questions[0].Position = 42

	fresh, err := store.Get(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if fresh.CurrentIndex != 0 || fresh.Questions[0].Position != 0 {
		t.Error("mutation of a returned attempt leaked into the store")
	}

	if _, err := store.Get(ctx, 404); !errors.Is(err, models.ErrAttemptNotFound) {
		t.Errorf("missing id: got %v, want ErrAttemptNotFound", err)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryAttemptStore()
	seeded := seedAttempt(t, store, 1, time.Now())
	ctx := context.Background()

	now := time.Now()
	seeded.CurrentIndex = 2
	seeded.Status = models.AttemptStatusCompleted
	seeded.CompletedAt = &now
	if err := store.Update(ctx, seeded); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CurrentIndex != 2 || got.Status != models.AttemptStatusCompleted || got.CompletedAt == nil {
		t.Errorf("updated attempt = %+v, want completed at index 2", got)
	}

	if err := store.Update(ctx, &models.Attempt{ID: 404}); !errors.Is(err, models.ErrAttemptNotFound) {
		t.Errorf("missing id: got %v, want ErrAttemptNotFound", err)
	}
}

func TestMemoryStoreAddAnswerRejectsDuplicate(t *testing.T) {
	store := NewMemoryAttemptStore()
	seeded := seedAttempt(t, store, 1, time.Now())
	ctx := context.Background()

	first := &models.AttemptAnswer{AttemptID: seeded.ID, QuestionID: 10, OptionID: 101, IsCorrect: true}
	if err := store.AddAnswer(ctx, first); err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected an assigned answer id")
	}

	dup := &models.AttemptAnswer{AttemptID: seeded.ID, QuestionID: 10, OptionID: 102}
	if err := store.AddAnswer(ctx, dup); !errors.Is(err, models.ErrAlreadyAnswered) {
		t.Errorf("duplicate: got %v, want ErrAlreadyAnswered", err)
	}

	got, err := store.Get(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Answers) != 1 || got.Answers[0].OptionID != 101 {
		t.Errorf("answers = %+v, want only the first submission", got.Answers)
	}
}

func TestMemoryStoreListByUser(t *testing.T) {
	store := NewMemoryAttemptStore()
	base := time.Now()
	old := seedAttempt(t, store, 1, base.Add(-time.Hour))
	recent := seedAttempt(t, store, 1, base)
	seedAttempt(t, store, 2, base)

	attempts, err := store.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	if attempts[0].ID != recent.ID || attempts[1].ID != old.ID {
		t.Errorf("order = (%d, %d), want newest first (%d, %d)", attempts[0].ID, attempts[1].ID, recent.ID, old.ID)
	}
}

func TestMemoryStoreTransact(t *testing.T) {
	store := NewMemoryAttemptStore()
	seeded := seedAttempt(t, store, 1, time.Now())
	ctx := context.Background()

	err := store.Transact(ctx, func(tx AttemptStore) error {
		attempt, err := tx.Get(ctx, seeded.ID)
		if err != nil {
			return err
		}
		attempt.CurrentIndex = 1
		if err := tx.Update(ctx, attempt); err != nil {
			return err
		}
		return tx.AddAnswer(ctx, &models.AttemptAnswer{AttemptID: seeded.ID, QuestionID: 10, OptionID: 101})
	})
	if err != nil {
		t.Fatalf("Transact: %v", err)
	}

	got, err := store.Get(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CurrentIndex != 1 || len(got.Answers) != 1 {
		t.Errorf("after transact = (index %d, %d answers), want (1, 1)", got.CurrentIndex, len(got.Answers))
	}

	sentinel := errors.New("boom")
	if err := store.Transact(ctx, func(AttemptStore) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Errorf("Transact error = %v, want the callback error", err)
	}
}

func TestStaticQuizSource(t *testing.T) {
	quiz := &models.Quiz{ID: 3, Title: "Algebra"}
	source := NewStaticQuizSource(map[uint]*models.Quiz{3: quiz})
	ctx := context.Background()

	got, err := source.LoadQuiz(ctx, 3)
	if err != nil {
		t.Fatalf("LoadQuiz: %v", err)
	}
	if got.Title != "Algebra" {
		t.Errorf("title = %q, want Algebra", got.Title)
	}
	if _, err := source.LoadQuiz(ctx, 404); !errors.Is(err, models.ErrQuizNotFound) {
		t.Errorf("missing quiz: got %v, want ErrQuizNotFound", err)
	}
}
