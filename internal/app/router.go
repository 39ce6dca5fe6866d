package app

import (
	"coursehub_backend/docs"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, repos)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTutorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

// Catalog browsing works for guests; a token, when present, widens what
// the caller can see (own drafts, enrolled private courses).
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/password-reset/request", c.auth.RequestPasswordReset)
		public.POST("/password-reset/confirm", c.auth.ResetPassword)
	}

	catalog := router.Group("/api")
	catalog.Use(middleware.TryAuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		catalog.GET("/courses", c.course.ListCourses)
		catalog.GET("/courses/:id", c.course.GetCourse)
		catalog.GET("/courses/:id/modules", c.module.ListModules)
		catalog.GET("/courses/:id/materials", c.material.ListMaterials)
		catalog.GET("/courses/:id/assignments", c.assignment.ListAssignments)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/users/profile", c.user.UpdateProfile)
	rg.POST("/users/avatar", c.user.UploadAvatar)

	rg.GET("/materials/:id", c.material.GetMaterial)
	rg.POST("/materials/:id/complete", c.material.CompleteMaterial)

	rg.POST("/courses/:id/enroll", c.enrollment.Enroll)
	rg.GET("/courses/:id/progress", c.enrollment.CourseProgress)
	rg.GET("/enrollments", c.enrollment.ListMine)
	rg.DELETE("/enrollments/:id", c.enrollment.Cancel)

	rg.POST("/assignments/:id/submit", c.assignment.Submit)
	rg.POST("/assignments/:id/upload", c.assignment.UploadSubmissionFile)
	rg.GET("/assignments/:id/submission", c.assignment.GetMySubmission)
}

func (a *App) registerTutorRoutes(rg *gin.RouterGroup, c *controllers) {
	tutor := rg.Group("/")
	tutor.Use(middleware.RoleMiddleware(model.Tutor, model.Admin))
	{
		tutor.POST("/courses", c.course.CreateCourse)
		tutor.PUT("/courses/:id", c.course.UpdateCourse)
		tutor.DELETE("/courses/:id", c.course.DeleteCourse)
		tutor.GET("/courses/:id/enrollments", c.enrollment.ListForCourse)

		tutor.POST("/courses/:id/modules", c.module.CreateModule)
		tutor.PUT("/modules/:id", c.module.UpdateModule)
		tutor.DELETE("/modules/:id", c.module.DeleteModule)

		tutor.POST("/courses/:id/materials", c.material.CreateMaterial)
		tutor.PUT("/materials/:id", c.material.UpdateMaterial)
		tutor.DELETE("/materials/:id", c.material.DeleteMaterial)
		tutor.POST("/materials/upload", c.material.UploadFile)
		tutor.POST("/materials/upload/thumbnail", c.material.UploadThumbnail)
		tutor.GET("/materials/upload/progress", c.material.UploadProgressStatus)

		tutor.POST("/courses/:id/assignments", c.assignment.CreateAssignment)
		tutor.PUT("/assignments/:id", c.assignment.UpdateAssignment)
		tutor.DELETE("/assignments/:id", c.assignment.DeleteAssignment)
		tutor.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
		tutor.PUT("/submissions/:id/grade", c.assignment.Grade)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disable", c.user.SetDisabled)
	}
}
