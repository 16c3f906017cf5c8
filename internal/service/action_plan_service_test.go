package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"kryva_backend/internal/model"
	"kryva_backend/internal/repository"
	"kryva_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPlanService(db *gorm.DB) *ActionPlanService {
	return NewActionPlanService(repository.NewActionPlanRepository(db), newGapService(db), nil, db)
}

func staticGenerator(tasks []model.PlanTask, err error) TaskGenerator {
	return func(context.Context, model.SkillGap, float64) ([]model.PlanTask, error) {
		return tasks, err
	}
}

func TestCreateActionPlansPerGapOutcomes(t *testing.T) {
	db := newTestDB(t)
	svc := newPlanService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion", "Hash Tables", "Binary Trees"}, map[string]model.TopicScore{})

	// Hash Tables is already fixed; Binary Trees already has a plan.
	require.NoError(t, svc.GapService.MarkSkillGapFixed(ctx, userID,
		model.GapKey{CourseName: "Data Structures", SkillName: "Hash Tables"}, true))
	require.NoError(t, db.Create(&model.ActionPlan{
		UserID:     userID,
		Title:      "existing",
		CourseName: "Data Structures",
		SkillName:  "Binary Trees",
	}).Error)

	req := CreatePlansRequest{
		Keys: []model.GapKey{
			{CourseName: "Data Structures", SkillName: "Recursion"},
			{CourseName: "Data Structures", SkillName: "Hash Tables"},
			{CourseName: "Data Structures", SkillName: "Binary Trees"},
			{CourseName: "Data Structures", SkillName: "Nonexistent"},
		},
		WeeklyHours: 5,
		DueDate:     time.Now().Add(14 * 24 * time.Hour),
	}

	generator := staticGenerator([]model.PlanTask{
		{Title: "review", Type: model.TaskDaily, EstimatedTime: 60},
		{Title: "practice", Type: model.TaskDaily, EstimatedTime: 90},
	}, nil)

	results, err := svc.CreateActionPlansForSkillGaps(ctx, userID, req, generator)
	require.NoError(t, err)
	require.Len(t, results, 4)

	bySkill := make(map[string]PlanCreationResult, len(results))
	for _, r := range results {
		bySkill[r.Key.SkillName] = r
	}

	created := bySkill["Recursion"]
	assert.Equal(t, "created", created.Status)
	assert.NotEmpty(t, created.PlanID)

	assert.Equal(t, "skipped", bySkill["Hash Tables"].Status)
	assert.Equal(t, "skipped", bySkill["Binary Trees"].Status)
	assert.Equal(t, "failed", bySkill["Nonexistent"].Status)

	plan, err := svc.GetPlan(created.PlanID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Close the Recursion gap in Data Structures", plan.Title)
	assert.Equal(t, model.PriorityCritical, plan.Priority)
	assert.Equal(t, model.PlanNotStarted, plan.Status)
	require.Len(t, plan.Tasks, 2)
	// 150 task minutes is under the 3.5h floor for a 7-day gap.
	assert.InDelta(t, 3.5, plan.EstimatedHours, 0.001)
}

func TestCreateActionPlansGeneratorFailureIsIsolated(t *testing.T) {
	db := newTestDB(t)
	svc := newPlanService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion", "Hash Tables"}, map[string]model.TopicScore{})

	calls := 0
	generator := func(_ context.Context, gap model.SkillGap, _ float64) ([]model.PlanTask, error) {
		calls++
		if gap.SkillName == "Recursion" {
			return nil, errors.New("generation unavailable")
		}
		return []model.PlanTask{{Title: "review", EstimatedTime: 60}}, nil
	}

	results, err := svc.CreateActionPlansForSkillGaps(ctx, userID, CreatePlansRequest{
		Keys: []model.GapKey{
			{CourseName: "Data Structures", SkillName: "Recursion"},
			{CourseName: "Data Structures", SkillName: "Hash Tables"},
		},
	}, generator)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "failed", results[0].Status)
	assert.Equal(t, "generation unavailable", results[0].Error)
	assert.Equal(t, "created", results[1].Status)

	plans, err := svc.ListPlans(userID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func seedPlanWithTasks(t *testing.T, db *gorm.DB, userID uint) *model.ActionPlan {
	t.Helper()
	plan := &model.ActionPlan{
		UserID:         userID,
		Title:          "Close the Recursion gap in Data Structures",
		CourseName:     "Data Structures",
		SkillName:      "Recursion",
		Priority:       model.PriorityCritical,
		EstimatedHours: 2.5,
		Status:         model.PlanNotStarted,
		Tasks: []model.PlanTask{
			{Title: "review", Type: model.TaskDaily, EstimatedTime: 60},
			{Title: "practice", Type: model.TaskDaily, EstimatedTime: 90},
		},
	}
	require.NoError(t, repository.NewActionPlanRepository(db).Create(plan))
	return plan
}

func taskByTitle(t *testing.T, plan *model.ActionPlan, title string) *model.PlanTask {
	t.Helper()
	for i := range plan.Tasks {
		if plan.Tasks[i].Title == title {
			return &plan.Tasks[i]
		}
	}
	t.Fatalf("task %q not found", title)
	return nil
}

func TestUpdateTaskStatusProgression(t *testing.T) {
	db := newTestDB(t)
	svc := newPlanService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion"}, map[string]model.TopicScore{})
	plan := seedPlanWithTasks(t, db, userID)

	review := taskByTitle(t, plan, "review")
	practice := taskByTitle(t, plan, "practice")

	updated, err := svc.UpdateTaskStatus(ctx, userID, plan.ID, review.ID, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, updated.CompletedHours, 0.001)
	assert.Equal(t, model.PlanInProgress, updated.Status)
	assert.Nil(t, updated.CompletedAt)
	assert.NotNil(t, taskByTitle(t, updated, "review").CompletedDate)

	updated, err = svc.UpdateTaskStatus(ctx, userID, plan.ID, practice.ID, true)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, updated.CompletedHours, 0.001)
	assert.Equal(t, model.PlanCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)

	// Completing the plan marks the linked gap fixed and resolves the course.
	var status model.SkillGapStatus
	require.NoError(t, db.Where("user_id = ? AND skill_name = ?", userID, "Recursion").
		First(&status).Error)
	assert.True(t, status.IsFixed)
	assessment := fetchAssessment(t, db, course.ID)
	assert.InDelta(t, 100, assessment.SkillGapProgress, 0.001)
	assert.True(t, assessment.CanReassess)
}

func TestUpdateTaskStatusToggleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newPlanService(db)
	ctx := context.Background()
	const userID = 1

	plan := seedPlanWithTasks(t, db, userID)
	review := taskByTitle(t, plan, "review")

	before, err := svc.GetPlan(plan.ID, userID)
	require.NoError(t, err)

	_, err = svc.UpdateTaskStatus(ctx, userID, plan.ID, review.ID, true)
	require.NoError(t, err)
	after, err := svc.UpdateTaskStatus(ctx, userID, plan.ID, review.ID, false)
	require.NoError(t, err)

	assert.Equal(t, before.CompletedHours, after.CompletedHours)
	assert.Equal(t, before.Status, after.Status)
	assert.Nil(t, after.CompletedAt)
	assert.False(t, taskByTitle(t, after, "review").Completed)
	assert.Nil(t, taskByTitle(t, after, "review").CompletedDate)
}

func TestUpdateTaskStatusUncompleteClearsCompletedAt(t *testing.T) {
	db := newTestDB(t)
	svc := newPlanService(db)
	ctx := context.Background()
	const userID = 1

	plan := seedPlanWithTasks(t, db, userID)
	review := taskByTitle(t, plan, "review")
	practice := taskByTitle(t, plan, "practice")

	_, err := svc.UpdateTaskStatus(ctx, userID, plan.ID, review.ID, true)
	require.NoError(t, err)
	completed, err := svc.UpdateTaskStatus(ctx, userID, plan.ID, practice.ID, true)
	require.NoError(t, err)
	require.Equal(t, model.PlanCompleted, completed.Status)

	reopened, err := svc.UpdateTaskStatus(ctx, userID, plan.ID, practice.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.PlanInProgress, reopened.Status)
	assert.InDelta(t, 1.0, reopened.CompletedHours, 0.001)
	assert.Nil(t, reopened.CompletedAt)
}

func TestUpdateTaskStatusNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newPlanService(db)
	ctx := context.Background()
	const userID = 1

	plan := seedPlanWithTasks(t, db, userID)

	_, err := svc.UpdateTaskStatus(ctx, userID, "no-such-plan", plan.Tasks[0].ID, true)
	assert.ErrorIs(t, err, util.ErrPlanNotFound)

	_, err = svc.UpdateTaskStatus(ctx, userID, plan.ID, "no-such-task", true)
	assert.ErrorIs(t, err, util.ErrTaskNotFound)

	// Another user's plan is invisible.
	_, err = svc.UpdateTaskStatus(ctx, 99, plan.ID, plan.Tasks[0].ID, true)
	assert.ErrorIs(t, err, util.ErrPlanNotFound)
}

func TestDeletePlan(t *testing.T) {
	db := newTestDB(t)
	svc := newPlanService(db)
	ctx := context.Background()
	const userID = 1

	plan := seedPlanWithTasks(t, db, userID)

	require.NoError(t, svc.DeletePlan(ctx, plan.ID, userID))
	_, err := svc.GetPlan(plan.ID, userID)
	assert.ErrorIs(t, err, util.ErrPlanNotFound)

	assert.ErrorIs(t, svc.DeletePlan(ctx, plan.ID, userID), util.ErrPlanNotFound)
}
