package repository

import (
	"context"
	"errors"

	"studyhall-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormAttemptStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGormAttemptStore(db *gorm.DB) *GormAttemptStore {
	return &GormAttemptStore{db: db}
}

func (s *GormAttemptStore) Create(ctx context.Context, attempt *models.Attempt) error {
	return s.db.WithContext(ctx).Create(attempt).Error
}

func (s *GormAttemptStore) Get(ctx context.Context, id uint) (*models.Attempt, error) {
	var attempt models.Attempt
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Answers").First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

func (s *GormAttemptStore) Update(ctx context.Context, attempt *models.Attempt) error {
	return s.db.WithContext(ctx).Model(attempt).
		Select("current_index", "status", "completed_at").
		Updates(map[string]interface{}{
			"current_index": attempt.CurrentIndex,
			"status":        attempt.Status,
			"completed_at":  attempt.CompletedAt,
		}).Error
}

func (s *GormAttemptStore) AddAnswer(ctx context.Context, answer *models.AttemptAnswer) error {
	return s.db.WithContext(ctx).Create(answer).Error
}

func (s *GormAttemptStore) ListByUser(ctx context.Context, userID uint) ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// Transact runs fn in a database transaction; Get calls made through the
// transactional store lock the attempt row FOR UPDATE, which serializes
// concurrent submissions against the same attempt.
func (s *GormAttemptStore) Transact(ctx context.Context, fn func(tx AttemptStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormAttemptStore{db: tx, inTx: true})
	})
}

// GormQuizSource loads quizzes with questions in authoring order and the
// owning course attached, straight from postgres.
type GormQuizSource struct {
	db *gorm.DB
}

func NewGormQuizSource(db *gorm.DB) *GormQuizSource {
	return &GormQuizSource{db: db}
}

func (s *GormQuizSource) LoadQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("Course").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC, id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_index ASC")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}
