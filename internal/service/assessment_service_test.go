package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"kryva_backend/internal/model"
	"kryva_backend/internal/repository"
	"kryva_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAssessmentService(db *gorm.DB) *AssessmentService {
	// The generation endpoint is unreachable, so quiz generation always
	// lands on the fallback set.
	srv := httptest.NewServer(nil)
	srv.Close()

	return NewAssessmentService(
		repository.NewAssessmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewSkillGapRepository(db),
		newGapService(db),
		newAIService(srv.URL),
	)
}

func TestGenerateQuizOwnershipAndGating(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	ctx := context.Background()

	course := seedCourse(t, db, 1, "CS201", "Data Structures")

	_, err := svc.GenerateQuiz(ctx, 1, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	// Another user's course looks like it does not exist.
	_, err = svc.GenerateQuiz(ctx, 2, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	questions, err := svc.GenerateQuiz(ctx, 1, course.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	// A completed assessment with unfixed gaps blocks reassessment.
	seedAssessment(t, db, 1, course, []string{"Recursion"}, map[string]model.TopicScore{})
	_, err = svc.GenerateQuiz(ctx, 1, course.ID)
	assert.ErrorIs(t, err, util.ErrReassessNotAllowed)

	// Fixing every gap reopens it.
	require.NoError(t, svc.GapService.MarkSkillGapFixed(ctx, 1,
		model.GapKey{CourseName: "Data Structures", SkillName: "Recursion"}, true))
	_, err = svc.GenerateQuiz(ctx, 1, course.ID)
	assert.NoError(t, err)
}

func TestSubmitAssessmentDerivesGaps(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")

	answers := []AnswerResult{
		{Topic: "Recursion", Correct: false},
		{Topic: "Recursion", Correct: false},
		{Topic: "Recursion", Correct: true},
		{Topic: "Hash Tables", Correct: true},
		{Topic: "Hash Tables", Correct: true},
		{Topic: "Big-O Analysis", Correct: true},
	}

	assessment, err := svc.SubmitAssessment(ctx, userID, course.ID, answers)
	require.NoError(t, err)

	assert.Equal(t, model.AssessmentCompleted, assessment.Status)
	assert.NotNil(t, assessment.CompletedAt)
	assert.Equal(t, 6, assessment.TotalQuestions)
	assert.Equal(t, 4, assessment.CorrectAnswers)
	assert.InDelta(t, 66.67, assessment.Score, 0.001)

	// Only Recursion (1/3) falls below the gap threshold.
	assert.Equal(t, []string{"Recursion"}, []string(assessment.SkillGaps))
	perf := assessment.TopicPerformance.Data()
	assert.Equal(t, model.TopicScore{Correct: 1, Total: 3}, perf["Recursion"])
	assert.Equal(t, model.TopicScore{Correct: 2, Total: 2}, perf["Hash Tables"])

	assert.InDelta(t, 0, assessment.SkillGapProgress, 0.001)
	assert.False(t, assessment.CanReassess)
}

func TestSubmitAssessmentNoGapsIsFullyResolved(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")

	assessment, err := svc.SubmitAssessment(ctx, userID, course.ID, []AnswerResult{
		{Topic: "Recursion", Correct: true},
		{Topic: "Hash Tables", Correct: true},
	})
	require.NoError(t, err)

	assert.Empty(t, assessment.SkillGaps)
	assert.InDelta(t, 100, assessment.SkillGapProgress, 0.001)
	assert.True(t, assessment.CanReassess)
}

func TestSubmitAssessmentResubmissionDropsStaleStatuses(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")

	_, err := svc.SubmitAssessment(ctx, userID, course.ID, []AnswerResult{
		{Topic: "Recursion", Correct: false},
		{Topic: "Hash Tables", Correct: false},
	})
	require.NoError(t, err)

	require.NoError(t, svc.GapService.MarkSkillGapFixed(ctx, userID,
		model.GapKey{CourseName: "Data Structures", SkillName: "Recursion"}, true))

	// The retake clears Recursion but still fails Hash Tables. The stale
	// Recursion status row must not linger and inflate progress.
	assessment, err := svc.SubmitAssessment(ctx, userID, course.ID, []AnswerResult{
		{Topic: "Recursion", Correct: true},
		{Topic: "Hash Tables", Correct: false},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hash Tables"}, []string(assessment.SkillGaps))
	assert.InDelta(t, 0, assessment.SkillGapProgress, 0.001)
	assert.False(t, assessment.CanReassess)

	var count int64
	require.NoError(t, db.Model(&model.SkillGapStatus{}).
		Where("user_id = ? AND skill_name = ?", userID, "Recursion").Count(&count).Error)
	assert.Zero(t, count)

	// Still one assessment row per course.
	var assessments int64
	require.NoError(t, db.Model(&model.Assessment{}).
		Where("course_id = ?", course.ID).Count(&assessments).Error)
	assert.EqualValues(t, 1, assessments)
}

func TestSubmitAssessmentValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	ctx := context.Background()

	_, err := svc.SubmitAssessment(ctx, 1, 1, nil)
	assert.Error(t, err)

	_, err = svc.SubmitAssessment(ctx, 1, 42, []AnswerResult{{Topic: "Recursion"}})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
