package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/services"
)

type Services struct {
	Import    services.ImportService
	Bootstrap services.BootstrapViewService
	Extract   services.ExtractService
	Translate services.TranslateService
	Package   services.PackageService
	Index     services.IndexService
	Writeback services.WritebackService
	Status    services.StatusService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	var translator services.Translator
	switch cfg.TranslateProvider {
	case "dummy":
		translator = services.DummyTranslator{}
	case "openai":
		t, err := services.NewOpenAITranslator(log, clients.OpenAI)
		if err != nil {
			return Services{}, fmt.Errorf("init openai translator: %w", err)
		}
		translator = t
	default:
		return Services{}, fmt.Errorf("unknown TRANSLATE_PROVIDER %q (want openai or dummy)", cfg.TranslateProvider)
	}

	return Services{
		Import:    services.NewImportService(db, log, repos.PortalModel, repos.PortalField, repos.PortalViewCommon, repos.PortalView, repos.PortalMenu, repos.PortalTab, repos.PortalSmartBtn),
		Bootstrap: services.NewBootstrapViewService(db, log, repos.PortalViewCommon, repos.PortalView),
		Extract:   services.NewExtractService(db, log, repos.PortalField, repos.PortalViewCommon, repos.Translation),
		Translate: services.NewTranslateService(db, log, repos.Translation, translator),
		Package:   services.NewPackageService(db, log, repos.Translation, repos.PortalField, repos.PortalViewCommon, repos.Document),
		Index:     services.NewIndexService(db, log, repos.Document, clients.OpenAI, clients.Chroma),
		Writeback: services.NewWritebackService(db, log, repos.PortalField, repos.PortalViewCommon, repos.Translation),
		Status:    services.NewStatusService(db, log, repos.Translation, repos.Document),
	}, nil
}
