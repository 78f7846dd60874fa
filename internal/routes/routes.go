package routes

import (
	"github.com/gin-gonic/gin"

	"habitboard/internal/handlers"
	"habitboard/internal/middleware"
	"habitboard/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	auth services.AuthService,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	shareHandler *handlers.ShareHandler,
	submissionHandler *handlers.SubmissionHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// ---- protected
	r.Use(middleware.AuthMiddleware(auth))

	r.POST("/logout", authHandler.Logout)
	r.GET("/me", authHandler.Me)
	r.PUT("/me/telegram", authHandler.LinkTelegram)

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.List)
		tasks.GET("/stats", taskHandler.Stats)
		tasks.GET("/rankings", taskHandler.Rankings)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/share", shareHandler.AddForTask)
	}

	// SHARE
	share := r.Group("/share")
	{
		share.POST("/", shareHandler.Add)
		share.GET("/list", shareHandler.List)
	}

	// SUBMISSIONS
	subs := r.Group("/submissions")
	{
		subs.POST("/", submissionHandler.Create)
		subs.GET("/", submissionHandler.ListForDate)
		subs.GET("/for-task/:taskId", submissionHandler.ListForTask)
	}

	// REPORTS
	reports := r.Group("/reports")
	{
		reports.GET("/monthly", reportHandler.Monthly)
	}

	return r
}
