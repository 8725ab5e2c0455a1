package app

import (
	"github.com/yungbote/devportal-backend/internal/handlers"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
)

type Handlers struct {
	Pipeline *handlers.PipelineHandler
	Portal   *handlers.PortalHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	defaults := handlers.PipelineDefaults{
		SrcLang:              cfg.SrcLang,
		TgtLang:              cfg.TgtLang,
		FieldCollection:      cfg.FieldCollection,
		ViewCollection:       cfg.ViewCollection,
		TranslateConcurrency: cfg.TranslateConc,
		TranslateMaxAttempts: cfg.TranslateAttempts,
		IndexMaxAttempts:     cfg.IndexAttempts,
		IndexBatchSize:       cfg.IndexBatchSize,
	}
	return Handlers{
		Pipeline: handlers.NewPipelineHandler(log, defaults, services.Extract, services.Translate, services.Package, services.Index, services.Status),
		Portal:   handlers.NewPortalHandler(log, services.Import, services.Bootstrap, services.Writeback, services.Status),
	}
}
