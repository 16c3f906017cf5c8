package controller

import (
	"errors"
	"kryva_backend/internal/model"
	"kryva_backend/internal/service"
	"kryva_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ActionPlanController struct {
	PlanService *service.ActionPlanService
}

func NewActionPlanController(planService *service.ActionPlanService) *ActionPlanController {
	return &ActionPlanController{PlanService: planService}
}

// GetPlans godoc
// @Summary List the current user's action plans
// @Tags action-plans
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Router /api/action-plans [get]
func (c *ActionPlanController) GetPlans(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plans, err := c.PlanService.ListPlans(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"plans": plans,
	})
}

// GetPlan godoc
// @Summary Get one action plan with its tasks
// @Tags action-plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "plan id"
// @Success 200 {object} util.Response{data=model.ActionPlan}
// @Failure 404 {object} util.Response
// @Router /api/action-plans/{id} [get]
func (c *ActionPlanController) GetPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.PlanService.GetPlan(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plan)
}

// swagger:model CreatePlansRequest
type CreatePlansRequest struct {
	SkillGaps   []model.GapKey `json:"skillGaps" binding:"required,min=1"`
	WeeklyHours float64        `json:"weeklyHours" binding:"required,gt=0"`
	DueDate     time.Time      `json:"dueDate" binding:"required"`
	Title       string         `json:"title"`
}

// CreatePlans godoc
// @Summary Create action plans for selected skill gaps
// @Description One plan per gap; each gap gets its own created/skipped/failed outcome.
// @Tags action-plans
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreatePlansRequest true "selected gaps and schedule"
// @Success 201 {object} util.Response{data=map[string]interface{}}
// @Failure 400 {object} util.Response
// @Router /api/action-plans [post]
func (c *ActionPlanController) CreatePlans(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request CreatePlansRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	results, err := c.PlanService.CreateActionPlansForSkillGaps(ctx.Request.Context(), claims.UserID, service.CreatePlansRequest{
		Keys:        request.SkillGaps,
		WeeklyHours: request.WeeklyHours,
		DueDate:     request.DueDate,
		Title:       request.Title,
	}, nil)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"results": results,
	})
}

// swagger:model UpdateTaskStatusRequest
type UpdateTaskStatusRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// UpdateTaskStatus godoc
// @Summary Toggle a task's completed flag
// @Description Recomputes the plan's completed hours and status; completing the plan marks the linked skill gap fixed.
// @Tags action-plans
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "plan id"
// @Param taskId path string true "task id"
// @Param request body UpdateTaskStatusRequest true "new completion state"
// @Success 200 {object} util.Response{data=model.ActionPlan}
// @Failure 404 {object} util.Response
// @Router /api/action-plans/{id}/tasks/{taskId} [patch]
func (c *ActionPlanController) UpdateTaskStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request UpdateTaskStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.UpdateTaskStatus(ctx.Request.Context(), claims.UserID,
		ctx.Param("id"), ctx.Param("taskId"), *request.Completed)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) || errors.Is(err, util.ErrTaskNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plan)
}

// DeletePlan godoc
// @Summary Delete an action plan
// @Tags action-plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "plan id"
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Failure 404 {object} util.Response
// @Router /api/action-plans/{id} [delete]
func (c *ActionPlanController) DeletePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.PlanService.DeletePlan(ctx.Request.Context(), ctx.Param("id"), claims.UserID); err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"message": "action plan deleted",
	})
}
