package repository

import (
	"kryva_backend/internal/model"

	"gorm.io/gorm"
)

type SkillGapRepository struct {
	DB *gorm.DB
}

func NewSkillGapRepository(db *gorm.DB) *SkillGapRepository {
	return &SkillGapRepository{DB: db}
}

func (r *SkillGapRepository) FindStatusesByUser(userID uint) ([]*model.SkillGapStatus, error) {
	var statuses []*model.SkillGapStatus
	err := r.DB.Where("user_id = ?", userID).Find(&statuses).Error
	return statuses, err
}

func (r *SkillGapRepository) FindStatus(userID uint, key model.GapKey) (*model.SkillGapStatus, error) {
	var status model.SkillGapStatus
	err := r.DB.Where("user_id = ? AND course_name = ? AND skill_name = ?",
		userID, key.CourseName, key.SkillName).First(&status).Error
	return &status, err
}

func (r *SkillGapRepository) CountFixed(userID uint, courseName string, skills []string) (int64, error) {
	if len(skills) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.SkillGapStatus{}).
		Where("user_id = ? AND course_name = ? AND skill_name IN ? AND is_fixed = ?",
			userID, courseName, skills, true).
		Count(&count).Error
	return count, err
}

func (r *SkillGapRepository) DeleteStatus(userID uint, key model.GapKey) error {
	return r.DB.Where("user_id = ? AND course_name = ? AND skill_name = ?",
		userID, key.CourseName, key.SkillName).
		Delete(&model.SkillGapStatus{}).Error
}

// DeleteStale removes status rows for skills no longer listed by the course's
// assessment, e.g. after a reassessment produced a different gap set.
func (r *SkillGapRepository) DeleteStale(userID uint, courseName string, keep []string) error {
	query := r.DB.Where("user_id = ? AND course_name = ?", userID, courseName)
	if len(keep) > 0 {
		query = query.Where("skill_name NOT IN ?", keep)
	}
	return query.Delete(&model.SkillGapStatus{}).Error
}
