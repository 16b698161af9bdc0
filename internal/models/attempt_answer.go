package models

import "time"

type AttemptAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AttemptID  uint      `gorm:"not null;uniqueIndex:idx_answer_unique" json:"attempt_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_answer_unique" json:"question_id"`
	OptionID   uint      `gorm:"not null" json:"option_id"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}
