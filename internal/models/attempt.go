package models

import "time"

type Attempt struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	QuizID         uint              `gorm:"not null;index" json:"quiz_id"`
	UserID         uint              `gorm:"not null;index" json:"user_id"`
	Status         string            `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	CurrentIndex   int               `gorm:"not null;default:0" json:"current_index"`
	TotalQuestions int               `gorm:"not null" json:"total_questions"`
	Questions      []AttemptQuestion `gorm:"foreignKey:AttemptID" json:"-"`
	Answers        []AttemptAnswer   `gorm:"foreignKey:AttemptID" json:"-"`
	StartedAt      time.Time         `json:"started_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
)

// AttemptQuestion records the run: the question sequence frozen at start time,
// so later quiz edits never reshuffle an attempt in flight.
type AttemptQuestion struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	AttemptID  uint `gorm:"not null;uniqueIndex:idx_attempt_question" json:"attempt_id"`
	QuestionID uint `gorm:"not null;uniqueIndex:idx_attempt_question" json:"question_id"`
	Position   int  `gorm:"not null" json:"position"`
}

// QuestionAt returns the question id at the given run position.
func (a *Attempt) QuestionAt(position int) (uint, bool) {
	for _, aq := range a.Questions {
		if aq.Position == position {
			return aq.QuestionID, true
		}
	}
	return 0, false
}

// AnswerFor returns the recorded answer for a question, if any.
func (a *Attempt) AnswerFor(questionID uint) *AttemptAnswer {
	for i := range a.Answers {
		if a.Answers[i].QuestionID == questionID {
			return &a.Answers[i]
		}
	}
	return nil
}

// Score counts correct answers in the ledger.
func (a *Attempt) Score() int {
	score := 0
	for _, ans := range a.Answers {
		if ans.IsCorrect {
			score++
		}
	}
	return score
}
