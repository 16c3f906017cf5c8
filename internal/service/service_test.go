package service

import (
	"fmt"
	"testing"

	"kryva_backend/internal/model"
	"kryva_backend/internal/repository"
	"kryva_backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache in-memory database so every pooled connection sees
	// the same schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newGapService(db *gorm.DB) *SkillGapService {
	return NewSkillGapService(
		repository.NewAssessmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewSkillGapRepository(db),
		repository.NewActionPlanRepository(db),
		db,
		nil,
	)
}

func seedCourse(t *testing.T, db *gorm.DB, userID uint, code, name string) *model.Course {
	t.Helper()
	course := &model.Course{UserID: userID, Code: code, Name: name}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedAssessment(t *testing.T, db *gorm.DB, userID uint, course *model.Course, gaps []string, perf map[string]model.TopicScore) *model.Assessment {
	t.Helper()
	assessment := &model.Assessment{
		UserID:           userID,
		CourseID:         course.ID,
		CourseName:       course.Name,
		Status:           model.AssessmentCompleted,
		SkillGaps:        gaps,
		TopicPerformance: datatypes.NewJSONType(perf),
	}
	require.NoError(t, db.Create(assessment).Error)
	return assessment
}

func fetchAssessment(t *testing.T, db *gorm.DB, courseID uint) *model.Assessment {
	t.Helper()
	var assessment model.Assessment
	require.NoError(t, db.Where("course_id = ?", courseID).First(&assessment).Error)
	return &assessment
}
