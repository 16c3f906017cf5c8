package repository

import (
	"kryva_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Save(assessment *model.Assessment) error {
	return r.DB.Save(assessment).Error
}

func (r *AssessmentRepository) FindByCourseID(courseID uint) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.DB.Where("course_id = ?", courseID).First(&assessment).Error
	return &assessment, err
}

func (r *AssessmentRepository) FindByUserID(userID uint) ([]*model.Assessment, error) {
	var assessments []*model.Assessment
	err := r.DB.Where("user_id = ?", userID).Find(&assessments).Error
	return assessments, err
}

func (r *AssessmentRepository) FindByUserAndCourseName(userID uint, courseName string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.DB.Where("user_id = ? AND course_name = ?", userID, courseName).First(&assessment).Error
	return &assessment, err
}
