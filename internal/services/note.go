package services

import (
	"studyhall-backend/internal/models"

	"gorm.io/gorm"
)

type NoteService struct {
	db      *gorm.DB
	courses *CourseService
}

func NewNoteService(db *gorm.DB, courses *CourseService) *NoteService {
	return &NoteService{db: db, courses: courses}
}

func (s *NoteService) ListNotes(courseID, userID uint) ([]models.Note, error) {
	if err := s.courses.OwnsCourse(courseID, userID); err != nil {
		return nil, err
	}

	var notes []models.Note
	err := s.db.Where("course_id = ?", courseID).
		Order("updated_at DESC").
		Find(&notes).Error
	return notes, err
}

func (s *NoteService) CreateNote(courseID, userID uint, title, content string) (*models.Note, error) {
	if err := s.courses.OwnsCourse(courseID, userID); err != nil {
		return nil, err
	}

	note := models.Note{
		CourseID: courseID,
		UserID:   userID,
		Title:    title,
		Content:  content,
	}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) GetNote(noteID, userID uint) (*models.Note, error) {
	var note models.Note
	if err := s.db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		return nil, models.ErrNoteNotFound
	}
	return &note, nil
}

func (s *NoteService) UpdateNote(noteID, userID uint, title, content string) (*models.Note, error) {
	var note models.Note
	if err := s.db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		return nil, models.ErrNoteNotFound
	}

	note.Title = title
	note.Content = content
	if err := s.db.Save(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) DeleteNote(noteID, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", noteID, userID).Delete(&models.Note{})
	if result.RowsAffected == 0 {
		return models.ErrNoteNotFound
	}
	return result.Error
}
