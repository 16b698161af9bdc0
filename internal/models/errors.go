package models

import "errors"

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")

	ErrNotCourseOwner  = errors.New("course does not belong to user")
	ErrNotAttemptOwner = errors.New("attempt does not belong to user")

	ErrQuizHasNoQuestions  = errors.New("quiz must have at least one question")
	ErrTooFewOptions       = errors.New("question must have at least two options")
	ErrOptionNotInQuestion = errors.New("option does not belong to the question")
	ErrExactlyOneCorrect   = errors.New("exactly one option must be marked as correct")

	// ErrAlreadyAnswered is returned on resubmission for an answered question;
	// the first recorded outcome is kept.
	ErrNotCurrentQuestion = errors.New("question is not the attempt's current question")
	ErrAlreadyAnswered    = errors.New("question has already been answered")
	ErrQuestionUnanswered = errors.New("current question has not been answered yet")
	ErrAttemptNotComplete = errors.New("attempt still has unanswered questions")
	ErrAttemptCompleted   = errors.New("attempt is already completed")
)
