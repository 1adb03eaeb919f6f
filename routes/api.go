package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ps-assigner/app/controllers"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, assignmentController *controllers.AssignmentController, adminController *controllers.AdminController) {
	// API v1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/encode", assignmentController.Encode)

		// Assignment routes
		assignments := v1.Group("/assignments")
		{
			assignments.POST("", assignmentController.Assign)
			assignments.POST("/jobs", assignmentController.SubmitJob)
			assignments.GET("/jobs/:jobID/status", assignmentController.GetJobStatus)
			assignments.GET("/jobs/:jobID/results", assignmentController.GetJobResults)
		}

		// File mẫu
		v1.GET("/samples/:name", assignmentController.Sample)

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/index-cache/purge", adminController.PurgeIndexCache)
		}

		// Health check route
		v1.GET("/health", assignmentController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, assignmentController *controllers.AssignmentController) {
	// Root health check
	router.GET("/health", assignmentController.HealthCheck)

	// Readiness check
	router.GET("/ready", assignmentController.HealthCheck)

	// Liveness check
	router.GET("/live", assignmentController.HealthCheck)
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, assignmentController *controllers.AssignmentController, adminController *controllers.AdminController) {
	// Thiết lập middleware
	setupMiddleware(router)

	// Thiết lập các loại routes
	SetupWebRoutes(router)
	SetupHealthRoutes(router, assignmentController)
	SetupAPIRoutes(router, assignmentController, adminController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// Logger middleware
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}
}
