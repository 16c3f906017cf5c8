package service

import (
	"errors"
	"kryva_backend/internal/model"
	"kryva_backend/internal/repository"
	"kryva_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	AssessmentRepo *repository.AssessmentRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, assessmentRepo *repository.AssessmentRepository) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		AssessmentRepo: assessmentRepo,
	}
}

// CourseWithAssessment pairs a course with its current assessment, if any.
type CourseWithAssessment struct {
	Course     *model.Course     `json:"course"`
	Assessment *model.Assessment `json:"assessment,omitempty"`
}

func (s *CourseService) ListCourses(userID uint) ([]CourseWithAssessment, error) {
	courses, err := s.CourseRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	list := make([]CourseWithAssessment, 0, len(courses))
	for _, course := range courses {
		entry := CourseWithAssessment{Course: course}
		assessment, err := s.AssessmentRepo.FindByCourseID(course.ID)
		if err == nil {
			entry.Assessment = assessment
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		list = append(list, entry)
	}

	return list, nil
}

func (s *CourseService) CreateCourse(userID uint, code, name string) (*model.Course, error) {
	_, err := s.CourseRepo.FindByUserAndName(userID, name)
	if err == nil {
		return nil, errors.New("course already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := &model.Course{
		UserID: userID,
		Code:   code,
		Name:   name,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID, userID uint) error {
	err := s.CourseRepo.Delete(courseID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	}
	return err
}
