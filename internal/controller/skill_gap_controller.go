package controller

import (
	"errors"
	"kryva_backend/internal/model"
	"kryva_backend/internal/service"
	"kryva_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SkillGapController struct {
	SkillGapService *service.SkillGapService
}

func NewSkillGapController(skillGapService *service.SkillGapService) *SkillGapController {
	return &SkillGapController{SkillGapService: skillGapService}
}

// GetSkillGaps godoc
// @Summary List the current user's skill gaps
// @Description Aggregated from assessments, static metadata, fixed statuses and linked plans; sorted unfixed-first by severity then urgency.
// @Tags skill-gaps
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Router /api/skill-gaps [get]
func (c *SkillGapController) GetSkillGaps(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	gaps, err := c.SkillGapService.FetchUserSkillGaps(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"skillGaps": gaps,
	})
}

// swagger:model MarkFixedRequest
type MarkFixedRequest struct {
	CourseName string `json:"courseName" binding:"required"`
	SkillName  string `json:"skillName" binding:"required"`
	Fixed      *bool  `json:"fixed" binding:"required"`
}

// MarkFixed godoc
// @Summary Toggle a skill gap's fixed flag
// @Tags skill-gaps
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body MarkFixedRequest true "gap key and new state"
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Failure 400 {object} util.Response
// @Router /api/skill-gaps/fixed [patch]
func (c *SkillGapController) MarkFixed(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request MarkFixedRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	key := model.GapKey{CourseName: request.CourseName, SkillName: request.SkillName}
	if err := c.SkillGapService.MarkSkillGapFixed(ctx.Request.Context(), claims.UserID, key, *request.Fixed); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"message": "skill gap updated",
	})
}

// RemoveSkillGap godoc
// @Summary Remove a skill gap from its course's assessment
// @Tags skill-gaps
// @Produce json
// @Security ApiKeyAuth
// @Param courseName query string true "course name"
// @Param skillName query string true "skill name"
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Failure 404 {object} util.Response
// @Router /api/skill-gaps [delete]
func (c *SkillGapController) RemoveSkillGap(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	key := model.GapKey{
		CourseName: ctx.Query("courseName"),
		SkillName:  ctx.Query("skillName"),
	}
	if key.CourseName == "" || key.SkillName == "" {
		util.BadRequest(ctx, "courseName and skillName are required")
		return
	}

	if err := c.SkillGapService.RemoveSkillGap(ctx.Request.Context(), claims.UserID, key); err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"message": "skill gap removed",
	})
}
