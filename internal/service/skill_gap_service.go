package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"kryva_backend/internal/model"
	"kryva_backend/internal/repository"
	"kryva_backend/internal/util"
	"math"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kryva_backend/pkg/logger"
)

const skillGapCacheTTL = time.Minute

// SkillGapService aggregates assessment results, static skill metadata,
// fixed-status rows and linked action plans into the per-user skill-gap list,
// and owns the mark-fixed / remove mutators.
type SkillGapService struct {
	AssessmentRepo *repository.AssessmentRepository
	CourseRepo     *repository.CourseRepository
	GapRepo        *repository.SkillGapRepository
	PlanRepo       *repository.ActionPlanRepository
	db             *gorm.DB
	rdb            *redis.Client
}

func NewSkillGapService(
	assessmentRepo *repository.AssessmentRepository,
	courseRepo *repository.CourseRepository,
	gapRepo *repository.SkillGapRepository,
	planRepo *repository.ActionPlanRepository,
	db *gorm.DB,
	rdb *redis.Client,
) *SkillGapService {
	return &SkillGapService{
		AssessmentRepo: assessmentRepo,
		CourseRepo:     courseRepo,
		GapRepo:        gapRepo,
		PlanRepo:       planRepo,
		db:             db,
		rdb:            rdb,
	}
}

func skillGapCacheKey(userID uint) string {
	return fmt.Sprintf("kryva:skillgaps:%d", userID)
}

// FetchUserSkillGaps builds the sorted skill-gap list for a user. A user with
// no assessments gets an empty list, not an error.
func (s *SkillGapService) FetchUserSkillGaps(ctx context.Context, userID uint) ([]model.SkillGap, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, skillGapCacheKey(userID)).Result(); err == nil {
			var gaps []model.SkillGap
			if err := json.Unmarshal([]byte(cached), &gaps); err == nil {
				return gaps, nil
			}
		}
	}

	assessments, err := s.AssessmentRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return []model.SkillGap{}, nil
	}

	courses, err := s.CourseRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	courseCodes := make(map[string]string, len(courses))
	for _, c := range courses {
		courseCodes[c.Name] = c.Code
	}

	plans, err := s.PlanRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	plansByGap := make(map[model.GapKey]*model.ActionPlan, len(plans))
	for _, p := range plans {
		plansByGap[p.GapKey()] = p
	}

	statuses, err := s.GapRepo.FindStatusesByUser(userID)
	if err != nil {
		return nil, err
	}
	statusByGap := make(map[model.GapKey]*model.SkillGapStatus, len(statuses))
	for _, st := range statuses {
		statusByGap[model.GapKey{CourseName: st.CourseName, SkillName: st.SkillName}] = st
	}

	gaps := []model.SkillGap{}
	for _, assessment := range assessments {
		topicPerf := assessment.TopicPerformance.Data()

		for _, skillName := range assessment.SkillGaps {
			key := model.GapKey{CourseName: assessment.CourseName, SkillName: skillName}

			meta, known := model.LookupSkillMeta(skillName)
			if !known {
				logger.Log.Warn("skill name has no metadata entry, using default profile",
					zap.String("skill", skillName), zap.String("course", assessment.CourseName))
			}

			perf, ok := topicPerf[skillName]
			if !ok {
				perf = model.TopicScore{Correct: 0, Total: 1}
			}

			gap := model.SkillGap{
				Key:           key,
				SkillName:     skillName,
				CourseCode:    courseCodes[assessment.CourseName],
				CourseName:    assessment.CourseName,
				Severity:      meta.Severity,
				Urgency:       meta.Urgency,
				DaysToAddress: meta.DaysToAddress,
				Blocks:        meta.Blocks,
				Reason:        meta.Reason,
				Impact:        meta.Impact,
				Performance:   perf,
				MetaKnown:     known,
				CreatedAt:     assessment.CreatedAt,
			}

			if plan, ok := plansByGap[key]; ok {
				gap.PlanID = plan.ID
				if plan.EstimatedHours > 0 {
					gap.Progress = round2(plan.CompletedHours / plan.EstimatedHours * 100)
				}
			}

			if status, ok := statusByGap[key]; ok {
				gap.IsFixed = status.IsFixed
				gap.FixedAt = status.FixedAt
				gap.CreatedAt = status.CreatedAt
			}

			gaps = append(gaps, gap)
		}
	}

	sortSkillGaps(gaps)

	if s.rdb != nil {
		if data, err := json.Marshal(gaps); err == nil {
			s.rdb.Set(ctx, skillGapCacheKey(userID), data, skillGapCacheTTL)
		}
	}

	return gaps, nil
}

// sortSkillGaps orders fixed gaps after unfixed ones; within each group by
// severity rank then urgency rank. Stable so equal gaps keep assessment order.
func sortSkillGaps(gaps []model.SkillGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].IsFixed != gaps[j].IsFixed {
			return !gaps[i].IsFixed
		}
		si, sj := model.SeverityRank(gaps[i].Severity), model.SeverityRank(gaps[j].Severity)
		if si != sj {
			return si < sj
		}
		return model.UrgencyRank(gaps[i].Urgency) < model.UrgencyRank(gaps[j].Urgency)
	})
}

// MarkSkillGapFixed toggles a gap's fixed flag and recomputes the owning
// course's skill-gap progress and reassessment eligibility in one
// transaction. Idempotent: progress is a pure function of the fixed count.
func (s *SkillGapService) MarkSkillGapFixed(ctx context.Context, userID uint, key model.GapKey, fixed bool) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var status model.SkillGapStatus
		err := tx.Where("user_id = ? AND course_name = ? AND skill_name = ?",
			userID, key.CourseName, key.SkillName).First(&status).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = model.SkillGapStatus{
				UserID:     userID,
				CourseName: key.CourseName,
				SkillName:  key.SkillName,
			}
		} else if err != nil {
			return err
		}

		status.IsFixed = fixed
		if fixed {
			now := time.Now()
			status.FixedAt = &now
		} else {
			status.FixedAt = nil
		}
		if err := tx.Save(&status).Error; err != nil {
			return err
		}

		return s.recomputeAssessmentProgress(tx, userID, key.CourseName)
	})
	if err != nil {
		return err
	}

	s.InvalidateCache(ctx, userID)
	return nil
}

// RemoveSkillGap drops a skill from its course's gap list, deletes the
// status row and recomputes progress over the remaining gaps.
func (s *SkillGapService) RemoveSkillGap(ctx context.Context, userID uint, key model.GapKey) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var assessment model.Assessment
		err := tx.Where("user_id = ? AND course_name = ?", userID, key.CourseName).
			First(&assessment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAssessmentNotFound
		} else if err != nil {
			return err
		}

		remaining := make([]string, 0, len(assessment.SkillGaps))
		for _, skill := range assessment.SkillGaps {
			if skill != key.SkillName {
				remaining = append(remaining, skill)
			}
		}
		assessment.SkillGaps = remaining

		if err := tx.Save(&assessment).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND course_name = ? AND skill_name = ?",
			userID, key.CourseName, key.SkillName).
			Delete(&model.SkillGapStatus{}).Error; err != nil {
			return err
		}

		return s.recomputeAssessmentProgress(tx, userID, key.CourseName)
	})
	if err != nil {
		return err
	}

	s.InvalidateCache(ctx, userID)
	return nil
}

// recomputeAssessmentProgress rewrites SkillGapProgress and CanReassess from
// the current fixed-status rows. Runs inside the caller's transaction.
func (s *SkillGapService) recomputeAssessmentProgress(tx *gorm.DB, userID uint, courseName string) error {
	var assessment model.Assessment
	err := tx.Where("user_id = ? AND course_name = ?", userID, courseName).First(&assessment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	total := len(assessment.SkillGaps)
	progress := 100.0
	if total > 0 {
		var fixed int64
		if err := tx.Model(&model.SkillGapStatus{}).
			Where("user_id = ? AND course_name = ? AND skill_name IN ? AND is_fixed = ?",
				userID, courseName, []string(assessment.SkillGaps), true).
			Count(&fixed).Error; err != nil {
			return err
		}
		progress = round2(float64(fixed) / float64(total) * 100)
	}

	return tx.Model(&model.Assessment{}).Where("id = ?", assessment.ID).
		Updates(map[string]interface{}{
			"skill_gap_progress": progress,
			"can_reassess":       progress == 100,
		}).Error
}

// InvalidateCache drops the cached aggregate for a user. Called by every
// mutator that can change the list.
func (s *SkillGapService) InvalidateCache(ctx context.Context, userID uint) {
	if s.rdb != nil {
		s.rdb.Del(ctx, skillGapCacheKey(userID))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
