package service

import (
	"context"
	"errors"
	"fmt"
	"kryva_backend/internal/model"
	"kryva_backend/internal/repository"
	"kryva_backend/internal/util"
	"kryva_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskGenerator produces the task list for one skill gap. The default
// generator asks the text-generation endpoint; tests and callers may supply
// their own.
type TaskGenerator func(ctx context.Context, gap model.SkillGap, weeklyHours float64) ([]model.PlanTask, error)

// PlanCreationResult is the per-gap outcome of a bulk plan creation. Failures
// on one gap never roll back plans already created for others; the caller
// retries just the failed items.
type PlanCreationResult struct {
	Key    model.GapKey `json:"key"`
	PlanID string       `json:"planId,omitempty"`
	Status string       `json:"status"` // created | skipped | failed
	Error  string       `json:"error,omitempty"`
}

type CreatePlansRequest struct {
	Keys        []model.GapKey
	WeeklyHours float64
	DueDate     time.Time
	Title       string
}

type ActionPlanService struct {
	PlanRepo   *repository.ActionPlanRepository
	GapService *SkillGapService
	AI         *AIService
	db         *gorm.DB
}

func NewActionPlanService(planRepo *repository.ActionPlanRepository, gapService *SkillGapService, ai *AIService, db *gorm.DB) *ActionPlanService {
	return &ActionPlanService{
		PlanRepo:   planRepo,
		GapService: gapService,
		AI:         ai,
		db:         db,
	}
}

func (s *ActionPlanService) ListPlans(userID uint) ([]*model.ActionPlan, error) {
	return s.PlanRepo.FindByUserID(userID)
}

func (s *ActionPlanService) GetPlan(id string, userID uint) (*model.ActionPlan, error) {
	plan, err := s.PlanRepo.FindByID(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanNotFound
	}
	return plan, err
}

func (s *ActionPlanService) DeletePlan(ctx context.Context, id string, userID uint) error {
	err := s.PlanRepo.Delete(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrPlanNotFound
	}
	if err == nil {
		s.GapService.InvalidateCache(ctx, userID)
	}
	return err
}

// CreateActionPlansForSkillGaps creates one plan per selected, not-yet-fixed
// gap. Each gap gets its own outcome; a generation failure for one gap does
// not affect the others.
func (s *ActionPlanService) CreateActionPlansForSkillGaps(ctx context.Context, userID uint, req CreatePlansRequest, generator TaskGenerator) ([]PlanCreationResult, error) {
	gaps, err := s.GapService.FetchUserSkillGaps(ctx, userID)
	if err != nil {
		return nil, err
	}
	gapsByKey := make(map[model.GapKey]model.SkillGap, len(gaps))
	for _, g := range gaps {
		gapsByKey[g.Key] = g
	}

	if generator == nil {
		generator = func(ctx context.Context, gap model.SkillGap, weeklyHours float64) ([]model.PlanTask, error) {
			return s.AI.GenerateTasks(ctx, gap, weeklyHours), nil
		}
	}

	results := make([]PlanCreationResult, 0, len(req.Keys))
	created := false
	for _, key := range req.Keys {
		result := PlanCreationResult{Key: key}

		gap, ok := gapsByKey[key]
		if !ok {
			result.Status = "failed"
			result.Error = "skill gap not found"
			results = append(results, result)
			continue
		}
		if gap.IsFixed {
			result.Status = "skipped"
			result.Error = "skill gap is already fixed"
			results = append(results, result)
			continue
		}
		if gap.PlanID != "" {
			result.Status = "skipped"
			result.Error = util.ErrGapAlreadyPlanned.Error()
			results = append(results, result)
			continue
		}

		tasks, err := generator(ctx, gap, req.WeeklyHours)
		if err != nil {
			logger.Log.Error("task generation failed for skill gap",
				zap.String("skill", key.SkillName), zap.String("course", key.CourseName), zap.Error(err))
			result.Status = "failed"
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		totalMinutes := 0
		for _, t := range tasks {
			totalMinutes += t.EstimatedTime
		}
		estimatedHours := float64(totalMinutes) / 60
		if floor := float64(gap.DaysToAddress) * 0.5; estimatedHours < floor {
			estimatedHours = floor
		}

		title := req.Title
		if title == "" {
			title = fmt.Sprintf("Close the %s gap in %s", gap.SkillName, gap.CourseName)
		}

		plan := &model.ActionPlan{
			UserID:         userID,
			Title:          title,
			CourseCode:     gap.CourseCode,
			CourseName:     gap.CourseName,
			SkillName:      gap.SkillName,
			Priority:       model.PriorityFromSeverity(gap.Severity),
			DueDate:        req.DueDate,
			EstimatedHours: round2(estimatedHours),
			WeeklyHours:    req.WeeklyHours,
			Status:         model.PlanNotStarted,
			Tasks:          tasks,
		}

		if err := s.PlanRepo.Create(plan); err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Status = "created"
		result.PlanID = plan.ID
		results = append(results, result)
		created = true
	}

	if created {
		s.GapService.InvalidateCache(ctx, userID)
	}

	return results, nil
}

// UpdateTaskStatus toggles one task's completed flag and recomputes the
// plan's completed hours and status. Completing the plan marks the linked
// skill gap fixed.
func (s *ActionPlanService) UpdateTaskStatus(ctx context.Context, userID uint, planID, taskID string, completed bool) (*model.ActionPlan, error) {
	plan, err := s.GetPlan(planID, userID)
	if err != nil {
		return nil, err
	}

	var task *model.PlanTask
	for i := range plan.Tasks {
		if plan.Tasks[i].ID == taskID {
			task = &plan.Tasks[i]
			break
		}
	}
	if task == nil {
		return nil, util.ErrTaskNotFound
	}

	task.Completed = completed
	if completed {
		now := time.Now()
		task.CompletedDate = &now
	} else {
		task.CompletedDate = nil
	}

	totalMinutes := 0
	for _, t := range plan.Tasks {
		if t.Completed {
			totalMinutes += t.EstimatedTime
		}
	}
	plan.CompletedHours = round2(float64(totalMinutes) / 60)

	previousStatus := plan.Status
	switch {
	case plan.EstimatedHours > 0 && plan.CompletedHours >= plan.EstimatedHours:
		plan.Status = model.PlanCompleted
	case plan.CompletedHours > 0:
		plan.Status = model.PlanInProgress
	default:
		plan.Status = model.PlanNotStarted
	}

	if plan.Status == model.PlanCompleted && previousStatus != model.PlanCompleted {
		now := time.Now()
		plan.CompletedAt = &now
	} else if plan.Status != model.PlanCompleted {
		plan.CompletedAt = nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		return tx.Model(&model.ActionPlan{}).Where("id = ?", plan.ID).
			Updates(map[string]interface{}{
				"completed_hours": plan.CompletedHours,
				"status":          plan.Status,
				"completed_at":    plan.CompletedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if plan.Status == model.PlanCompleted && previousStatus != model.PlanCompleted {
		if err := s.GapService.MarkSkillGapFixed(ctx, userID, plan.GapKey(), true); err != nil {
			logger.Log.Error("failed to mark skill gap fixed after plan completion",
				zap.String("planId", plan.ID), zap.Error(err))
		}
	}

	s.GapService.InvalidateCache(ctx, userID)
	return plan, nil
}
