package models

type Question struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	QuizID      uint     `gorm:"not null;index" json:"quiz_id"`
	Text        string   `gorm:"type:text;not null" json:"text"`
	Explanation string   `gorm:"type:text" json:"explanation,omitempty"`
	OrderNum    int      `gorm:"not null" json:"order_num"`
	Options     []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

// CorrectOption returns the single option flagged correct, or nil when the
// question was persisted without one (guarded against at write time).
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
