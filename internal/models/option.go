package models

type Option struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	QuestionID  uint   `gorm:"not null;index" json:"question_id"`
	Text        string `gorm:"size:500;not null" json:"text"`
	OptionIndex int    `gorm:"not null;default:0" json:"option_index"`
	IsCorrect   bool   `gorm:"not null;default:false" json:"-"`
}
