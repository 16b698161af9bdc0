package services

import (
	"studyhall-backend/internal/models"

	"gorm.io/gorm"
)

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

func (s *CourseService) ListCourses(userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (s *CourseService) CreateCourse(userID uint, title, description string) (*models.Course, error) {
	course := models.Course{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := s.db.Create(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) GetCourse(courseID, userID uint) (*models.Course, error) {
	var course models.Course
	err := s.db.Where("id = ? AND user_id = ?", courseID, userID).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("updated_at DESC")
		}).
		Preload("Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&course).Error
	if err != nil {
		return nil, models.ErrCourseNotFound
	}
	return &course, nil
}

func (s *CourseService) UpdateCourse(courseID, userID uint, title, description string) (*models.Course, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND user_id = ?", courseID, userID).First(&course).Error; err != nil {
		return nil, models.ErrCourseNotFound
	}

	course.Title = title
	course.Description = description
	if err := s.db.Save(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) DeleteCourse(courseID, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", courseID, userID).Delete(&models.Course{})
	if result.RowsAffected == 0 {
		return models.ErrCourseNotFound
	}
	return result.Error
}

// OwnsCourse reports whether the course exists and belongs to the user.
func (s *CourseService) OwnsCourse(courseID, userID uint) error {
	var course models.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		return models.ErrCourseNotFound
	}
	if course.UserID != userID {
		return models.ErrNotCourseOwner
	}
	return nil
}
