package services

import (
	"context"
	"math"
	"time"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/repository"
)

// AttemptService drives one quiz attempt through its lifecycle:
// start → submit answer → next question → finalize. The question sequence is
// frozen at start time in authoring order, the cursor never skips an
// unanswered question, and an answer is recorded exactly once.
type AttemptService struct {
	store   repository.AttemptStore
	quizzes repository.QuizSource
}

func NewAttemptService(store repository.AttemptStore, quizzes repository.QuizSource) *AttemptService {
	return &AttemptService{store: store, quizzes: quizzes}
}

type OptionView struct {
	ID          uint   `json:"id"`
	OptionText  string `json:"option_text"`
	OptionIndex int    `json:"option_index"`
}

type QuestionView struct {
	ID           uint         `json:"id"`
	QuestionText string       `json:"question_text"`
	Options      []OptionView `json:"options"`
}

type AttemptHandle struct {
	AttemptID            uint          `json:"attempt_id"`
	QuizID               uint          `json:"quiz_id"`
	QuizTitle            string        `json:"quiz_title"`
	TotalQuestions       int           `json:"total_questions"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	FirstQuestion        *QuestionView `json:"first_question"`
}

type NextResult struct {
	AttemptID            uint          `json:"attempt_id"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	TotalQuestions       int           `json:"total_questions"`
	IsComplete           bool          `json:"is_complete"`
	NextQuestion         *QuestionView `json:"next_question,omitempty"`
}

type SubmissionResult struct {
	IsCorrect       bool   `json:"is_correct"`
	CorrectAnswerID uint   `json:"correct_answer_id"`
	FeedbackText    string `json:"feedback_text"`
}

type AttemptResult struct {
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	Percentage     int        `json:"percentage"`
	CompletedAt    *time.Time `json:"completed_at"`
}

type AttemptProgress struct {
	AttemptID            uint          `json:"attempt_id"`
	QuizID               uint          `json:"quiz_id"`
	Status               string        `json:"status"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	TotalQuestions       int           `json:"total_questions"`
	AnsweredCount        int           `json:"answered_count"`
	CurrentQuestion      *QuestionView `json:"current_question,omitempty"`
}

// Start creates a fresh attempt against the quiz. The run is the quiz's
// questions in authoring order; the cursor begins at the first question.
func (s *AttemptService) Start(ctx context.Context, quizID, userID uint) (*AttemptHandle, error) {
	quiz, err := s.quizzes.LoadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Course.UserID != userID {
		return nil, models.ErrNotCourseOwner
	}
	if len(quiz.Questions) == 0 {
		return nil, models.ErrQuizHasNoQuestions
	}

	attempt := &models.Attempt{
		QuizID:         quizID,
		UserID:         userID,
		Status:         models.AttemptStatusInProgress,
		CurrentIndex:   0,
		TotalQuestions: len(quiz.Questions),
		StartedAt:      time.Now(),
	}
	for i, q := range quiz.Questions {
		attempt.Questions = append(attempt.Questions, models.AttemptQuestion{
			QuestionID: q.ID,
			Position:   i,
		})
	}
	if err := s.store.Create(ctx, attempt); err != nil {
		return nil, err
	}

	return &AttemptHandle{
		AttemptID:            attempt.ID,
		QuizID:               quiz.ID,
		QuizTitle:            quiz.Title,
		TotalQuestions:       attempt.TotalQuestions,
		CurrentQuestionIndex: 0,
		FirstQuestion:        questionView(&quiz.Questions[0]),
	}, nil
}

// Retake is Start under a different route: always a brand-new attempt, so a
// user can hold any number of independent attempts against the same quiz.
func (s *AttemptService) Retake(ctx context.Context, quizID, userID uint) (*AttemptHandle, error) {
	return s.Start(ctx, quizID, userID)
}

// Next advances the cursor past an answered question and returns the question
// now under the cursor, or a completion signal once the run is exhausted.
// Skipping an unanswered question is not allowed.
func (s *AttemptService) Next(ctx context.Context, attemptID, userID uint) (*NextResult, error) {
	var result *NextResult
	err := s.store.Transact(ctx, func(tx repository.AttemptStore) error {
		attempt, err := s.getOwned(ctx, tx, attemptID, userID)
		if err != nil {
			return err
		}

		if attempt.CurrentIndex >= attempt.TotalQuestions {
			result = &NextResult{
				AttemptID:            attempt.ID,
				CurrentQuestionIndex: attempt.CurrentIndex,
				TotalQuestions:       attempt.TotalQuestions,
				IsComplete:           true,
			}
			return nil
		}

		currentID, ok := attempt.QuestionAt(attempt.CurrentIndex)
		if !ok {
			return models.ErrQuestionNotFound
		}
		if attempt.AnswerFor(currentID) == nil {
			return models.ErrQuestionUnanswered
		}

		attempt.CurrentIndex++
		if err := tx.Update(ctx, attempt); err != nil {
			return err
		}

		result = &NextResult{
			AttemptID:            attempt.ID,
			CurrentQuestionIndex: attempt.CurrentIndex,
			TotalQuestions:       attempt.TotalQuestions,
			IsComplete:           attempt.CurrentIndex >= attempt.TotalQuestions,
		}
		if !result.IsComplete {
			nextID, _ := attempt.QuestionAt(attempt.CurrentIndex)
			view, err := s.loadQuestionView(ctx, attempt.QuizID, nextID)
			if err != nil {
				return err
			}
			result.NextQuestion = view
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Submit records the answer for the question currently under the cursor.
// The attempt row is held exclusively for the duration, so two racing
// submissions for the same question cannot both land; the unique index on
// (attempt_id, question_id) backstops the check.
func (s *AttemptService) Submit(ctx context.Context, attemptID, userID, questionID, optionID uint) (*SubmissionResult, error) {
	var result *SubmissionResult
	err := s.store.Transact(ctx, func(tx repository.AttemptStore) error {
		attempt, err := s.getOwned(ctx, tx, attemptID, userID)
		if err != nil {
			return err
		}
		if attempt.Status == models.AttemptStatusCompleted {
			return models.ErrAttemptCompleted
		}
		if attempt.CurrentIndex >= attempt.TotalQuestions {
			return models.ErrNotCurrentQuestion
		}

		currentID, ok := attempt.QuestionAt(attempt.CurrentIndex)
		if !ok {
			return models.ErrQuestionNotFound
		}
		if attempt.AnswerFor(questionID) != nil {
			return models.ErrAlreadyAnswered
		}
		if questionID != currentID {
			return models.ErrNotCurrentQuestion
		}

		quiz, err := s.quizzes.LoadQuiz(ctx, attempt.QuizID)
		if err != nil {
			return err
		}
		question := findQuestion(quiz, questionID)
		if question == nil {
			return models.ErrQuestionNotFound
		}

		var selected *models.Option
		for i := range question.Options {
			if question.Options[i].ID == optionID {
				selected = &question.Options[i]
				break
			}
		}
		if selected == nil {
			return models.ErrOptionNotInQuestion
		}

		correct := question.CorrectOption()
		if correct == nil {
			return models.ErrExactlyOneCorrect
		}

		answer := &models.AttemptAnswer{
			AttemptID:  attempt.ID,
			QuestionID: questionID,
			OptionID:   optionID,
			IsCorrect:  selected.IsCorrect,
			AnsweredAt: time.Now(),
		}
		if err := tx.AddAnswer(ctx, answer); err != nil {
			return err
		}

		result = &SubmissionResult{
			IsCorrect:       selected.IsCorrect,
			CorrectAnswerID: correct.ID,
			FeedbackText:    feedbackText(question, selected.IsCorrect),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Finalize computes the canonical result once every question in the run is
// answered. The first call flips the attempt to completed; repeat calls
// return the same result. Partial scoring is not supported.
func (s *AttemptService) Finalize(ctx context.Context, attemptID, userID uint) (*AttemptResult, error) {
	var result *AttemptResult
	err := s.store.Transact(ctx, func(tx repository.AttemptStore) error {
		attempt, err := s.getOwned(ctx, tx, attemptID, userID)
		if err != nil {
			return err
		}

		if attempt.Status != models.AttemptStatusCompleted {
			if len(attempt.Answers) < attempt.TotalQuestions {
				return models.ErrAttemptNotComplete
			}
			now := time.Now()
			attempt.Status = models.AttemptStatusCompleted
			attempt.CompletedAt = &now
			if err := tx.Update(ctx, attempt); err != nil {
				return err
			}
		}

		result = resultFor(attempt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Progress reports where an attempt stands, including the current question
// for resume flows.
func (s *AttemptService) Progress(ctx context.Context, attemptID, userID uint) (*AttemptProgress, error) {
	attempt, err := s.getOwned(ctx, s.store, attemptID, userID)
	if err != nil {
		return nil, err
	}

	progress := &AttemptProgress{
		AttemptID:            attempt.ID,
		QuizID:               attempt.QuizID,
		Status:               attempt.Status,
		CurrentQuestionIndex: attempt.CurrentIndex,
		TotalQuestions:       attempt.TotalQuestions,
		AnsweredCount:        len(attempt.Answers),
	}
	if attempt.Status == models.AttemptStatusInProgress && attempt.CurrentIndex < attempt.TotalQuestions {
		currentID, ok := attempt.QuestionAt(attempt.CurrentIndex)
		if ok {
			if view, err := s.loadQuestionView(ctx, attempt.QuizID, currentID); err == nil {
				progress.CurrentQuestion = view
			}
		}
	}
	return progress, nil
}

// List returns the caller's attempts, newest first.
func (s *AttemptService) List(ctx context.Context, userID uint) ([]models.Attempt, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *AttemptService) getOwned(ctx context.Context, store repository.AttemptStore, attemptID, userID uint) (*models.Attempt, error) {
	attempt, err := store.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, models.ErrNotAttemptOwner
	}
	return attempt, nil
}

func (s *AttemptService) loadQuestionView(ctx context.Context, quizID, questionID uint) (*QuestionView, error) {
	quiz, err := s.quizzes.LoadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	question := findQuestion(quiz, questionID)
	if question == nil {
		return nil, models.ErrQuestionNotFound
	}
	return questionView(question), nil
}

// questionView strips correctness flags for display.
func questionView(q *models.Question) *QuestionView {
	view := &QuestionView{ID: q.ID, QuestionText: q.Text}
	for _, o := range q.Options {
		view.Options = append(view.Options, OptionView{
			ID:          o.ID,
			OptionText:  o.Text,
			OptionIndex: o.OptionIndex,
		})
	}
	return view
}

func findQuestion(quiz *models.Quiz, questionID uint) *models.Question {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			return &quiz.Questions[i]
		}
	}
	return nil
}

func feedbackText(q *models.Question, correct bool) string {
	if q.Explanation != "" {
		return q.Explanation
	}
	if correct {
		return "Correct!"
	}
	return "Incorrect."
}

func resultFor(attempt *models.Attempt) *AttemptResult {
	score := attempt.Score()
	percentage := 0
	if attempt.TotalQuestions > 0 {
		percentage = int(math.Round(100 * float64(score) / float64(attempt.TotalQuestions)))
	}
	return &AttemptResult{
		Score:          score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     percentage,
		CompletedAt:    attempt.CompletedAt,
	}
}
