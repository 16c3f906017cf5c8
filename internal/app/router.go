package app

import (
	"kryva_backend/docs"
	"kryva_backend/internal/config"
	"kryva_backend/internal/middleware"
	"kryva_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes, no login required.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Everything else requires a valid token.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		courses := authGroup.Group("/courses")
		{
			courses.GET("", c.course.GetCourses)
			courses.POST("", c.course.CreateCourse)
			courses.DELETE("/:id", c.course.DeleteCourse)
		}

		assessments := authGroup.Group("/assessments")
		{
			assessments.POST("/questions", c.assessment.GenerateQuiz)
			assessments.POST("/submit", c.assessment.SubmitAssessment)
		}

		skillGaps := authGroup.Group("/skill-gaps")
		{
			skillGaps.GET("", c.skillGap.GetSkillGaps)
			skillGaps.PATCH("/fixed", c.skillGap.MarkFixed)
			skillGaps.DELETE("", c.skillGap.RemoveSkillGap)
		}

		plans := authGroup.Group("/action-plans")
		{
			plans.GET("", c.actionPlan.GetPlans)
			plans.POST("", c.actionPlan.CreatePlans)
			plans.GET("/:id", c.actionPlan.GetPlan)
			plans.PATCH("/:id/tasks/:taskId", c.actionPlan.UpdateTaskStatus)
			plans.DELETE("/:id", c.actionPlan.DeletePlan)
		}
	}
}
