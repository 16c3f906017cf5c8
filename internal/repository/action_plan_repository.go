package repository

import (
	"kryva_backend/internal/model"

	"gorm.io/gorm"
)

type ActionPlanRepository struct {
	DB *gorm.DB
}

func NewActionPlanRepository(db *gorm.DB) *ActionPlanRepository {
	return &ActionPlanRepository{DB: db}
}

// Create persists a plan together with its tasks.
func (r *ActionPlanRepository) Create(plan *model.ActionPlan) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}

		for i := range plan.Tasks {
			task := &plan.Tasks[i]
			if task.ID == "" {
				task.PlanID = plan.ID
				if err := tx.Create(task).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func (r *ActionPlanRepository) FindByID(id string, userID uint) (*model.ActionPlan, error) {
	var plan model.ActionPlan
	err := r.DB.Preload("Tasks").Where("id = ? AND user_id = ?", id, userID).First(&plan).Error
	return &plan, err
}

func (r *ActionPlanRepository) FindByUserID(userID uint) ([]*model.ActionPlan, error) {
	var plans []*model.ActionPlan
	err := r.DB.Preload("Tasks").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (r *ActionPlanRepository) FindByUserAndGap(userID uint, key model.GapKey) (*model.ActionPlan, error) {
	var plan model.ActionPlan
	err := r.DB.Preload("Tasks").
		Where("user_id = ? AND course_name = ? AND skill_name = ?",
			userID, key.CourseName, key.SkillName).
		First(&plan).Error
	return &plan, err
}

func (r *ActionPlanRepository) Update(plan *model.ActionPlan) error {
	return r.DB.Save(plan).Error
}

func (r *ActionPlanRepository) UpdateTask(task *model.PlanTask) error {
	return r.DB.Save(task).Error
}

func (r *ActionPlanRepository) Delete(id string, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).Delete(&model.PlanTask{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.ActionPlan{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
