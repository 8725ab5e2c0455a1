package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
)

type Repos struct {
	PortalModel      repos.PortalModelRepo
	PortalField      repos.PortalFieldRepo
	PortalViewCommon repos.PortalViewCommonRepo
	PortalView       repos.PortalViewRepo
	PortalTab        repos.PortalTabRepo
	PortalSmartBtn   repos.PortalSmartButtonRepo
	PortalMenu       repos.PortalMenuRepo
	Translation      repos.TranslationRepo
	Document         repos.DocumentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		PortalModel:      repos.NewPortalModelRepo(db, log),
		PortalField:      repos.NewPortalFieldRepo(db, log),
		PortalViewCommon: repos.NewPortalViewCommonRepo(db, log),
		PortalView:       repos.NewPortalViewRepo(db, log),
		PortalTab:        repos.NewPortalTabRepo(db, log),
		PortalSmartBtn:   repos.NewPortalSmartButtonRepo(db, log),
		PortalMenu:       repos.NewPortalMenuRepo(db, log),
		Translation:      repos.NewTranslationRepo(db, log),
		Document:         repos.NewDocumentRepo(db, log),
	}
}
