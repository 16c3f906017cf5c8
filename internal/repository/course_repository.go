package repository

import (
	"kryva_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByUserID(userID uint) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.DB.Where("user_id = ?", userID).Order("name").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByUserAndName(userID uint, name string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("user_id = ? AND name = ?", userID, name).First(&course).Error
	return &course, err
}

// Delete removes a course together with its assessment and skill-gap status
// rows in one transaction.
func (r *CourseRepository) Delete(courseID, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Where("id = ? AND user_id = ?", courseID, userID).First(&course).Error; err != nil {
			return err
		}

		if err := tx.Where("course_id = ?", courseID).Delete(&model.Assessment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND course_name = ?", userID, course.Name).
			Delete(&model.SkillGapStatus{}).Error; err != nil {
			return err
		}

		return tx.Delete(&course).Error
	})
}
