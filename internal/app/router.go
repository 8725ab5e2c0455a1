package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/server"
)

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:             log,
		PipelineHandler: handlers.Pipeline,
		PortalHandler:   handlers.Portal,
	})
}
