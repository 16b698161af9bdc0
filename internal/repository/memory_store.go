package repository

import (
	"context"
	"sort"
	"sync"

	"studyhall-backend/internal/models"
)

// MemoryAttemptStore keeps attempts in process memory. Used by tests and by
// local development without postgres; Transact serializes on a store-wide
// mutex, which gives the same exclusive-access guarantee as the row lock in
// the gorm store, at coarser granularity.
type MemoryAttemptStore struct {
	mu         sync.Mutex
	inTx       bool
	attempts   map[uint]*models.Attempt
	nextID     uint
	nextAnswer uint
}

func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{
		attempts:   make(map[uint]*models.Attempt),
		nextID:     1,
		nextAnswer: 1,
	}
}

func (s *MemoryAttemptStore) Create(_ context.Context, attempt *models.Attempt) error {
	s.lock()
	defer s.unlock()

	attempt.ID = s.nextID
	s.nextID++
	for i := range attempt.Questions {
		attempt.Questions[i].AttemptID = attempt.ID
	}
	stored := cloneAttempt(attempt)
	s.attempts[attempt.ID] = &stored
	return nil
}

func (s *MemoryAttemptStore) Get(_ context.Context, id uint) (*models.Attempt, error) {
	s.lock()
	defer s.unlock()

	stored, ok := s.attempts[id]
	if !ok {
		return nil, models.ErrAttemptNotFound
	}
	out := cloneAttempt(stored)
	return &out, nil
}

func (s *MemoryAttemptStore) Update(_ context.Context, attempt *models.Attempt) error {
	s.lock()
	defer s.unlock()

	stored, ok := s.attempts[attempt.ID]
	if !ok {
		return models.ErrAttemptNotFound
	}
	stored.CurrentIndex = attempt.CurrentIndex
	stored.Status = attempt.Status
	stored.CompletedAt = attempt.CompletedAt
	return nil
}

func (s *MemoryAttemptStore) AddAnswer(_ context.Context, answer *models.AttemptAnswer) error {
	s.lock()
	defer s.unlock()

	stored, ok := s.attempts[answer.AttemptID]
	if !ok {
		return models.ErrAttemptNotFound
	}
	for _, existing := range stored.Answers {
		if existing.QuestionID == answer.QuestionID {
			return models.ErrAlreadyAnswered
		}
	}
	answer.ID = s.nextAnswer
	s.nextAnswer++
	stored.Answers = append(stored.Answers, *answer)
	return nil
}

func (s *MemoryAttemptStore) ListByUser(_ context.Context, userID uint) ([]models.Attempt, error) {
	s.lock()
	defer s.unlock()

	var out []models.Attempt
	for _, stored := range s.attempts {
		if stored.UserID == userID {
			out = append(out, cloneAttempt(stored))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (s *MemoryAttemptStore) Transact(_ context.Context, fn func(tx AttemptStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryAttemptStore{
		inTx:       true,
		attempts:   s.attempts,
		nextID:     s.nextID,
		nextAnswer: s.nextAnswer,
	}
	err := fn(tx)
	s.nextID = tx.nextID
	s.nextAnswer = tx.nextAnswer
	return err
}

func (s *MemoryAttemptStore) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *MemoryAttemptStore) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func cloneAttempt(a *models.Attempt) models.Attempt {
	out := *a
	out.Questions = append([]models.AttemptQuestion(nil), a.Questions...)
	out.Answers = append([]models.AttemptAnswer(nil), a.Answers...)
	return out
}

// StaticQuizSource serves quizzes from a fixed map (tests and demos).
type StaticQuizSource struct {
	quizzes map[uint]*models.Quiz
}

func NewStaticQuizSource(quizzes map[uint]*models.Quiz) *StaticQuizSource {
	return &StaticQuizSource{quizzes: quizzes}
}

func (s *StaticQuizSource) LoadQuiz(_ context.Context, quizID uint) (*models.Quiz, error) {
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return nil, models.ErrQuizNotFound
	}
	return quiz, nil
}
