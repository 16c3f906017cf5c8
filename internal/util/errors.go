package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrPlanNotFound       = errors.New("action plan not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrReassessNotAllowed = errors.New("reassessment not allowed until all skill gaps are fixed")
	ErrGapAlreadyPlanned  = errors.New("skill gap already has an action plan")
)
