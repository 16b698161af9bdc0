package services

import (
	"context"

	"studyhall-backend/internal/models"

	"gorm.io/gorm"
)

// QuizInvalidator drops cached quiz snapshots after authoring writes.
type QuizInvalidator interface {
	Invalidate(ctx context.Context, quizID uint)
}

type QuizService struct {
	db          *gorm.DB
	courses     *CourseService
	invalidator QuizInvalidator
}

func NewQuizService(db *gorm.DB, courses *CourseService, invalidator QuizInvalidator) *QuizService {
	return &QuizService{db: db, courses: courses, invalidator: invalidator}
}

type OptionInput struct {
	Text      string `json:"text" binding:"required,min=1,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Text        string        `json:"text" binding:"required,min=1"`
	Explanation string        `json:"explanation"`
	Options     []OptionInput `json:"options" binding:"required"`
}

func (s *QuizService) ListQuizzes(courseID, userID uint) ([]models.Quiz, error) {
	if err := s.courses.OwnsCourse(courseID, userID); err != nil {
		return nil, err
	}

	var quizzes []models.Quiz
	err := s.db.Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) CreateQuiz(courseID, userID uint, title string) (*models.Quiz, error) {
	if err := s.courses.OwnsCourse(courseID, userID); err != nil {
		return nil, err
	}

	quiz := models.Quiz{
		CourseID: courseID,
		Title:    title,
	}
	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) GetQuiz(quizID, userID uint) (*models.Quiz, error) {
	quiz, err := s.getOwnedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC, id ASC")
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("option_index ASC")
	}).First(quiz, quiz.ID).Error
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID, userID uint, title string) (*models.Quiz, error) {
	quiz, err := s.getOwnedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}

	quiz.Title = title
	if err := s.db.Save(quiz).Error; err != nil {
		return nil, err
	}
	s.invalidate(quizID)
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID, userID uint) error {
	quiz, err := s.getOwnedQuiz(quizID, userID)
	if err != nil {
		return err
	}

	if err := s.db.Select("Questions", "Questions.Options").Delete(quiz).Error; err != nil {
		return err
	}
	s.invalidate(quizID)
	return nil
}

// CreateQuestion appends a question to the quiz. Options keep their request
// order as option_index (0-based, what the client letters A/B/C/D); exactly
// one option must be flagged correct.
func (s *QuizService) CreateQuestion(quizID, userID uint, input QuestionInput) (*models.Question, error) {
	quiz, err := s.getOwnedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}

	if err := validateOptions(input.Options); err != nil {
		return nil, err
	}

	var maxOrder int
	s.db.Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).
		Select("COALESCE(MAX(order_num), -1)").Scan(&maxOrder)

	question := models.Question{
		QuizID:      quiz.ID,
		Text:        input.Text,
		Explanation: input.Explanation,
		OrderNum:    maxOrder + 1,
	}

	tx := s.db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for i, o := range input.Options {
		opt := models.Option{
			QuestionID:  question.ID,
			Text:        o.Text,
			OptionIndex: i,
			IsCorrect:   o.IsCorrect,
		}
		if err := tx.Create(&opt).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	tx.Commit()
	s.invalidate(quiz.ID)

	s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("option_index ASC")
	}).First(&question, question.ID)
	return &question, nil
}

func (s *QuizService) UpdateQuestion(questionID, userID uint, input QuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, models.ErrQuestionNotFound
	}
	if _, err := s.getOwnedQuiz(question.QuizID, userID); err != nil {
		return nil, err
	}

	if err := validateOptions(input.Options); err != nil {
		return nil, err
	}

	tx := s.db.Begin()

	question.Text = input.Text
	question.Explanation = input.Explanation
	if err := tx.Save(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Where("question_id = ?", questionID).Delete(&models.Option{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for i, o := range input.Options {
		opt := models.Option{
			QuestionID:  questionID,
			Text:        o.Text,
			OptionIndex: i,
			IsCorrect:   o.IsCorrect,
		}
		if err := tx.Create(&opt).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	tx.Commit()
	s.invalidate(question.QuizID)

	s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("option_index ASC")
	}).First(&question, questionID)
	return &question, nil
}

func (s *QuizService) DeleteQuestion(questionID, userID uint) error {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return models.ErrQuestionNotFound
	}
	if _, err := s.getOwnedQuiz(question.QuizID, userID); err != nil {
		return err
	}

	if err := s.db.Select("Options").Delete(&question).Error; err != nil {
		return err
	}
	s.invalidate(question.QuizID)
	return nil
}

func (s *QuizService) getOwnedQuiz(quizID, userID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, models.ErrQuizNotFound
	}
	if err := s.courses.OwnsCourse(quiz.CourseID, userID); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) invalidate(quizID uint) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(context.Background(), quizID)
	}
}

func validateOptions(options []OptionInput) error {
	if len(options) < 2 {
		return models.ErrTooFewOptions
	}
	correctCount := 0
	for _, o := range options {
		if o.IsCorrect {
			correctCount++
		}
	}
	if correctCount != 1 {
		return models.ErrExactlyOneCorrect
	}
	return nil
}
