package service

import (
	"context"
	"errors"
	"kryva_backend/internal/model"
	"kryva_backend/internal/repository"
	"kryva_backend/internal/util"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Topics scoring below this ratio on a quiz become skill gaps.
const skillGapThreshold = 0.6

type AssessmentService struct {
	AssessmentRepo *repository.AssessmentRepository
	CourseRepo     *repository.CourseRepository
	GapRepo        *repository.SkillGapRepository
	GapService     *SkillGapService
	AI             *AIService
}

func NewAssessmentService(
	assessmentRepo *repository.AssessmentRepository,
	courseRepo *repository.CourseRepository,
	gapRepo *repository.SkillGapRepository,
	gapService *SkillGapService,
	ai *AIService,
) *AssessmentService {
	return &AssessmentService{
		AssessmentRepo: assessmentRepo,
		CourseRepo:     courseRepo,
		GapRepo:        gapRepo,
		GapService:     gapService,
		AI:             ai,
	}
}

// GenerateQuiz returns quiz questions for a course. Reassessment of an
// already-completed course is gated on all of its skill gaps being fixed.
func (s *AssessmentService) GenerateQuiz(ctx context.Context, userID, courseID uint) ([]model.QuizQuestion, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && course.UserID != userID) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	assessment, err := s.AssessmentRepo.FindByCourseID(courseID)
	if err == nil && assessment.Status == model.AssessmentCompleted && !assessment.CanReassess {
		return nil, util.ErrReassessNotAllowed
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.AI.GenerateQuizQuestions(ctx, course.Name), nil
}

// AnswerResult is one graded quiz answer as reported by the client.
type AnswerResult struct {
	Topic   string `json:"topic" binding:"required"`
	Correct bool   `json:"correct"`
}

// SubmitAssessment records a completed quiz: score, per-topic counts, and the
// derived skill-gap list. A resubmission overwrites the course's assessment
// and drops status rows for skills that are no longer gaps.
func (s *AssessmentService) SubmitAssessment(ctx context.Context, userID, courseID uint, answers []AnswerResult) (*model.Assessment, error) {
	if len(answers) == 0 {
		return nil, errors.New("no answers submitted")
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && course.UserID != userID) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	topicPerf := make(map[string]model.TopicScore)
	correctTotal := 0
	for _, answer := range answers {
		score := topicPerf[answer.Topic]
		score.Total++
		if answer.Correct {
			score.Correct++
			correctTotal++
		}
		topicPerf[answer.Topic] = score
	}

	var gaps []string
	for topic, score := range topicPerf {
		if float64(score.Correct)/float64(score.Total) < skillGapThreshold {
			gaps = append(gaps, topic)
		}
	}

	assessment, err := s.AssessmentRepo.FindByCourseID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		assessment = &model.Assessment{
			UserID:     userID,
			CourseID:   courseID,
			CourseName: course.Name,
		}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	assessment.Status = model.AssessmentCompleted
	assessment.CompletedAt = &now
	assessment.Score = round2(float64(correctTotal) / float64(len(answers)) * 100)
	assessment.SkillGaps = gaps
	assessment.TopicPerformance = datatypes.NewJSONType(topicPerf)
	assessment.TotalQuestions = len(answers)
	assessment.CorrectAnswers = correctTotal

	if err := s.AssessmentRepo.Save(assessment); err != nil {
		return nil, err
	}

	if err := s.GapRepo.DeleteStale(userID, course.Name, gaps); err != nil {
		return nil, err
	}

	// Progress and reassessment eligibility follow from the surviving status
	// rows; a gap-free result is vacuously fully resolved.
	if err := s.GapService.recomputeAssessmentProgress(s.AssessmentRepo.DB, userID, course.Name); err != nil {
		return nil, err
	}
	assessment, err = s.AssessmentRepo.FindByCourseID(courseID)
	if err != nil {
		return nil, err
	}

	s.GapService.InvalidateCache(ctx, userID)
	return assessment, nil
}
