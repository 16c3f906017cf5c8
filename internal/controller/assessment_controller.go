package controller

import (
	"errors"
	"kryva_backend/internal/service"
	"kryva_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// swagger:model GenerateQuizRequest
type GenerateQuizRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// GenerateQuiz godoc
// @Summary Generate quiz questions for a course
// @Description Asks the text-generation endpoint for questions, falling back to a static set on failure.
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body GenerateQuizRequest true "course to assess"
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assessments/questions [post]
func (c *AssessmentController) GenerateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.AssessmentService.GenerateQuiz(ctx.Request.Context(), claims.UserID, request.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrReassessNotAllowed):
			util.Error(ctx, http.StatusForbidden, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"questions": questions,
	})
}

// swagger:model SubmitAssessmentRequest
type SubmitAssessmentRequest struct {
	CourseID uint                   `json:"courseId" binding:"required"`
	Answers  []service.AnswerResult `json:"answers" binding:"required"`
}

// SubmitAssessment godoc
// @Summary Submit graded quiz answers
// @Description Records the score, per-topic performance and the derived skill-gap list.
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body SubmitAssessmentRequest true "graded answers"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assessments/submit [post]
func (c *AssessmentController) SubmitAssessment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request SubmitAssessmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assessment, err := c.AssessmentService.SubmitAssessment(ctx.Request.Context(), claims.UserID, request.CourseID, request.Answers)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, assessment)
}
