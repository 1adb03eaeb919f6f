package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ps-assigner/app/controllers"
	"github.com/ps-assigner/internal/tabular"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	// Web routes group
	web := router.Group("/")
	{
		// Home page
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "PS/Section Assignment Service",
				"version": controllers.Version,
				"docs":    "/docs",
			})
		})

		// API documentation
		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "PS/Section Assignment API v1",
				"endpoints": map[string]string{
					"encode":      "POST /v1/encode",
					"assign":      "POST /v1/assignments?format=json|csv|xlsx",
					"submit_job":  "POST /v1/assignments/jobs",
					"job_status":  "GET /v1/assignments/jobs/:jobID/status",
					"job_results": "GET /v1/assignments/jobs/:jobID/results?format=json|ndjson|csv|xlsx&gzip=1",
					"samples":     "GET /v1/samples/:name",
					"health":      "GET /v1/health",
				},
				"samples": tabular.TemplateNames(),
				"input": gin.H{
					"houses": []string{tabular.ColSNo, tabular.ColHouseNo, tabular.ColRefNo},
					"ranges": []string{tabular.ColFrom, tabular.ColTo, tabular.ColPS, tabular.ColSec},
				},
			})
		})

		// Status page
		web.GET("/status", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "running",
				"service": "PS/Section Assignment",
			})
		})
	}
}
