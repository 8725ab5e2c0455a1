package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/devportal-backend/internal/handlers"
	"github.com/yungbote/devportal-backend/internal/middleware"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	PipelineHandler *handlers.PipelineHandler
	PortalHandler   *handlers.PortalHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("devportal-backend"))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	router.GET("/healthcheck", handlers.HealthCheck)

	admin := router.Group("/api/admin")
	{
		if cfg.PipelineHandler != nil {
			pipeline := admin.Group("/pipeline")
			pipeline.POST("/extract/fields", cfg.PipelineHandler.ExtractFields)
			pipeline.POST("/extract/view-commons", cfg.PipelineHandler.ExtractViewCommons)
			pipeline.POST("/translate", cfg.PipelineHandler.Translate)
			pipeline.POST("/package", cfg.PipelineHandler.Package)
			pipeline.POST("/index", cfg.PipelineHandler.Index)
			pipeline.GET("/status", cfg.PipelineHandler.Status)
		}

		if cfg.PortalHandler != nil {
			portal := admin.Group("/portal")
			portal.POST("/import", cfg.PortalHandler.Import)
			portal.POST("/views/bootstrap", cfg.PortalHandler.BootstrapViews)
			portal.PUT("/actions/:xmlid/primary-view", cfg.PortalHandler.SetPrimaryView)
			portal.POST("/writeback/fields", cfg.PortalHandler.WritebackFields)
			portal.POST("/writeback/view-commons", cfg.PortalHandler.WritebackViewCommons)
			portal.GET("/documents", cfg.PortalHandler.ListDocuments)
		}
	}

	return router
}
