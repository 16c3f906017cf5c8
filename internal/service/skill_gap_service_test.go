package service

import (
	"context"
	"testing"

	"kryva_backend/internal/model"
	"kryva_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUserSkillGapsNoAssessments(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)

	gaps, err := svc.FetchUserSkillGaps(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, gaps)
	assert.Empty(t, gaps)
}

func TestFetchUserSkillGapsAllGapsResolvedAway(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)

	course := seedCourse(t, db, 1, "CS201", "Data Structures")
	seedAssessment(t, db, 1, course, []string{}, map[string]model.TopicScore{})

	// An assessment with an empty gap list still yields an empty array,
	// not a nil slice that would serialize as JSON null.
	gaps, err := svc.FetchUserSkillGaps(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, gaps)
	assert.Empty(t, gaps)
}

func TestFetchUserSkillGapsJoinsMetadataAndSorts(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Normalization", "Recursion", "Quantum Chromodynamics"},
		map[string]model.TopicScore{
			"Normalization": {Correct: 1, Total: 4},
			"Recursion":     {Correct: 0, Total: 3},
		})

	gaps, err := svc.FetchUserSkillGaps(ctx, userID)
	require.NoError(t, err)
	require.Len(t, gaps, 3)

	// Critical first, then manageable/medium, then the unknown skill on the
	// default manageable/low profile.
	assert.Equal(t, "Recursion", gaps[0].SkillName)
	assert.Equal(t, "Normalization", gaps[1].SkillName)
	assert.Equal(t, "Quantum Chromodynamics", gaps[2].SkillName)

	assert.True(t, gaps[0].MetaKnown)
	assert.Equal(t, model.SeverityCritical, gaps[0].Severity)
	assert.Equal(t, "CS201", gaps[0].CourseCode)
	assert.Equal(t, model.TopicScore{Correct: 0, Total: 3}, gaps[0].Performance)

	unknown := gaps[2]
	assert.False(t, unknown.MetaKnown)
	assert.Equal(t, model.SeverityManageable, unknown.Severity)
	assert.Equal(t, model.UrgencyLow, unknown.Urgency)
	assert.Equal(t, 30, unknown.DaysToAddress)
	assert.Empty(t, unknown.Blocks)
	// No recorded topic score defaults to 0/1.
	assert.Equal(t, model.TopicScore{Correct: 0, Total: 1}, unknown.Performance)
}

func TestFetchUserSkillGapsFixedSortLast(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion", "Normalization"}, map[string]model.TopicScore{})

	require.NoError(t, svc.MarkSkillGapFixed(ctx, userID,
		model.GapKey{CourseName: "Data Structures", SkillName: "Recursion"}, true))

	gaps, err := svc.FetchUserSkillGaps(ctx, userID)
	require.NoError(t, err)
	require.Len(t, gaps, 2)

	// The critical gap sorts behind the manageable one once fixed.
	assert.Equal(t, "Normalization", gaps[0].SkillName)
	assert.Equal(t, "Recursion", gaps[1].SkillName)
	assert.True(t, gaps[1].IsFixed)
	assert.NotNil(t, gaps[1].FixedAt)
}

func TestFetchUserSkillGapsIncludesPlanProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion"}, map[string]model.TopicScore{})

	plan := &model.ActionPlan{
		UserID:         userID,
		Title:          "Recursion plan",
		CourseName:     "Data Structures",
		SkillName:      "Recursion",
		EstimatedHours: 3,
		CompletedHours: 1,
		Status:         model.PlanInProgress,
	}
	require.NoError(t, db.Create(plan).Error)

	gaps, err := svc.FetchUserSkillGaps(ctx, userID)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, plan.ID, gaps[0].PlanID)
	assert.InDelta(t, 33.33, gaps[0].Progress, 0.001)
}

func TestMarkSkillGapFixedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion", "Hash Tables", "Binary Trees"}, map[string]model.TopicScore{})

	key := model.GapKey{CourseName: "Data Structures", SkillName: "Recursion"}
	require.NoError(t, svc.MarkSkillGapFixed(ctx, userID, key, true))
	first := fetchAssessment(t, db, course.ID)

	require.NoError(t, svc.MarkSkillGapFixed(ctx, userID, key, true))
	second := fetchAssessment(t, db, course.ID)

	assert.InDelta(t, 33.33, first.SkillGapProgress, 0.001)
	assert.Equal(t, first.SkillGapProgress, second.SkillGapProgress)
	assert.False(t, second.CanReassess)

	var statuses []model.SkillGapStatus
	require.NoError(t, db.Where("user_id = ?", userID).Find(&statuses).Error)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].IsFixed)
}

func TestMarkSkillGapFixedProgressAndReassess(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion", "Hash Tables", "Binary Trees"}, map[string]model.TopicScore{})

	fix := func(skill string) {
		require.NoError(t, svc.MarkSkillGapFixed(ctx, userID,
			model.GapKey{CourseName: "Data Structures", SkillName: skill}, true))
	}

	fix("Recursion")
	fix("Binary Trees")
	assessment := fetchAssessment(t, db, course.ID)
	assert.InDelta(t, 66.67, assessment.SkillGapProgress, 0.001)
	assert.False(t, assessment.CanReassess)

	fix("Hash Tables")
	assessment = fetchAssessment(t, db, course.ID)
	assert.InDelta(t, 100, assessment.SkillGapProgress, 0.001)
	assert.True(t, assessment.CanReassess)
}

func TestMarkSkillGapFixedUnfix(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion"}, map[string]model.TopicScore{})

	key := model.GapKey{CourseName: "Data Structures", SkillName: "Recursion"}
	require.NoError(t, svc.MarkSkillGapFixed(ctx, userID, key, true))
	assessment := fetchAssessment(t, db, course.ID)
	require.True(t, assessment.CanReassess)

	require.NoError(t, svc.MarkSkillGapFixed(ctx, userID, key, false))
	assessment = fetchAssessment(t, db, course.ID)
	assert.InDelta(t, 0, assessment.SkillGapProgress, 0.001)
	assert.False(t, assessment.CanReassess)

	var status model.SkillGapStatus
	require.NoError(t, db.Where("user_id = ?", userID).First(&status).Error)
	assert.False(t, status.IsFixed)
	assert.Nil(t, status.FixedAt)
}

func TestRemoveSkillGap(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion", "Hash Tables"}, map[string]model.TopicScore{})

	require.NoError(t, svc.MarkSkillGapFixed(ctx, userID,
		model.GapKey{CourseName: "Data Structures", SkillName: "Recursion"}, true))

	// Removing the unfixed gap leaves only the fixed one, so the course
	// becomes fully resolved.
	require.NoError(t, svc.RemoveSkillGap(ctx, userID,
		model.GapKey{CourseName: "Data Structures", SkillName: "Hash Tables"}))

	assessment := fetchAssessment(t, db, course.ID)
	assert.Equal(t, []string{"Recursion"}, []string(assessment.SkillGaps))
	assert.InDelta(t, 100, assessment.SkillGapProgress, 0.001)
	assert.True(t, assessment.CanReassess)
}

func TestRemoveSkillGapDeletesStatusRow(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)
	ctx := context.Background()
	const userID = 1

	course := seedCourse(t, db, userID, "CS201", "Data Structures")
	seedAssessment(t, db, userID, course,
		[]string{"Recursion"}, map[string]model.TopicScore{})

	key := model.GapKey{CourseName: "Data Structures", SkillName: "Recursion"}
	require.NoError(t, svc.MarkSkillGapFixed(ctx, userID, key, true))
	require.NoError(t, svc.RemoveSkillGap(ctx, userID, key))

	var count int64
	require.NoError(t, db.Model(&model.SkillGapStatus{}).
		Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemoveSkillGapUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newGapService(db)

	err := svc.RemoveSkillGap(context.Background(), 1,
		model.GapKey{CourseName: "Nope", SkillName: "Recursion"})
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestSortSkillGapsStable(t *testing.T) {
	gaps := []model.SkillGap{
		{SkillName: "b", Severity: model.SeverityModerate, Urgency: model.UrgencyHigh},
		{SkillName: "a", Severity: model.SeverityCritical, Urgency: model.UrgencyImmediate, IsFixed: true},
		{SkillName: "c", Severity: model.SeverityModerate, Urgency: model.UrgencyHigh},
		{SkillName: "d", Severity: model.SeverityModerate, Urgency: model.UrgencyMedium},
	}

	sortSkillGaps(gaps)

	names := []string{gaps[0].SkillName, gaps[1].SkillName, gaps[2].SkillName, gaps[3].SkillName}
	assert.Equal(t, []string{"b", "c", "d", "a"}, names)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 66.67, round2(2.0/3.0*100), 0.0001)
	assert.InDelta(t, 33.33, round2(1.0/3.0*100), 0.0001)
	assert.InDelta(t, 100, round2(100), 0.0001)
}
