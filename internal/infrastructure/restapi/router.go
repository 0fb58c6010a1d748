package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
)

// SetupRouter wires the dashboard routes onto a gin engine.
func SetupRouter(handler *SnapshotHandler, cfg *configloader.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/snapshot", handler.GetSnapshotHandler)
		v1.POST("/snapshot/run", handler.RunSnapshotHandler)
		v1.GET("/report", handler.GetReportHandler)
	}

	router.GET("/dashboard", handler.GetDashboardHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Swagger.Enabled {
		router.StaticFile("/swagger.yaml", "docs/swagger.yaml")
		router.GET(cfg.Swagger.Path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.URL("/swagger.yaml")))
	}

	return router
}
