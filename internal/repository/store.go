package repository

import (
	"context"

	"studyhall-backend/internal/models"
)

// AttemptStore is the durable record of quiz attempts. The attempt engine
// depends on this interface only; implementations decide how exclusive access
// is provided inside Transact.
type AttemptStore interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	// Get returns the attempt with its run and answer ledger loaded. Inside
	// Transact the returned row is held under exclusive access until the
	// transaction ends.
	Get(ctx context.Context, id uint) (*models.Attempt, error)
	// Update persists cursor, status and completion fields only; the run and
	// the answer ledger are immutable through this method.
	Update(ctx context.Context, attempt *models.Attempt) error
	AddAnswer(ctx context.Context, answer *models.AttemptAnswer) error
	ListByUser(ctx context.Context, userID uint) ([]models.Attempt, error)
	Transact(ctx context.Context, fn func(tx AttemptStore) error) error
}

// QuizSource loads quiz content for attempts: questions in their stable
// presentation order with options (correctness flags included, so callers
// must never hand the result to a client unfiltered), and the owning course.
type QuizSource interface {
	LoadQuiz(ctx context.Context, quizID uint) (*models.Quiz, error)
}
