package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập trang chủ và trang mô tả API
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Vietnamese Address Parser Service",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"api": "Address Parser API v1",
				"endpoints": map[string]string{
					"parse":            "POST /v1/addresses/parse",
					"batch":            "POST /v1/addresses/jobs",
					"job_status":       "GET /v1/addresses/jobs/:jobID/status",
					"job_results":      "GET /v1/addresses/jobs/:jobID/results?format=ndjson&gzip=1",
					"cache_invalidate": "POST /v1/admin/cache/invalidate",
					"stats":            "GET /v1/admin/stats",
					"gazetteer_seed":   "POST /v1/admin/gazetteer/seed?dry_run=true",
					"indexes_build":    "POST /v1/admin/indexes/build",
					"export":           "GET /v1/admin/export/:type",
					"health":           "GET /health",
				},
			})
		})
	}
}
