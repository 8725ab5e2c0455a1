package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/types"
)

type StatusSummary struct {
	Models       int64            `json:"models"`
	Fields       int64            `json:"fields"`
	ViewCommons  int64            `json:"view_commons"`
	Views        int64            `json:"views"`
	Menus        int64            `json:"menus"`
	Translations map[string]int64 `json:"translations"`
	Documents    map[string]int64 `json:"documents"`
}

// StatusService reports pipeline progress: row counts of the metadata tables
// plus the state breakdown of the translation and document queues.
type StatusService interface {
	Summary(ctx context.Context) (*StatusSummary, error)
	ListDocuments(ctx context.Context, filter repos.DocumentFilter) ([]*types.PortalChromaDoc, error)
}

type statusService struct {
	db        *gorm.DB
	log       *logger.Logger
	transRepo repos.TranslationRepo
	docRepo   repos.DocumentRepo
}

func NewStatusService(db *gorm.DB, log *logger.Logger, transRepo repos.TranslationRepo, docRepo repos.DocumentRepo) StatusService {
	serviceLog := log.With("service", "StatusService")
	return &statusService{
		db:        db,
		log:       serviceLog,
		transRepo: transRepo,
		docRepo:   docRepo,
	}
}

func (s *statusService) Summary(ctx context.Context) (*StatusSummary, error) {
	summary := &StatusSummary{}

	tableCounts := []struct {
		model any
		dst   *int64
	}{
		{&types.PortalModel{}, &summary.Models},
		{&types.PortalField{}, &summary.Fields},
		{&types.PortalViewCommon{}, &summary.ViewCommons},
		{&types.PortalView{}, &summary.Views},
		{&types.PortalMenu{}, &summary.Menus},
	}
	for _, tc := range tableCounts {
		if err := s.db.WithContext(ctx).Model(tc.model).Count(tc.dst).Error; err != nil {
			return nil, err
		}
	}

	translations, err := s.transRepo.CountByState(ctx, nil)
	if err != nil {
		return nil, err
	}
	documents, err := s.docRepo.CountByState(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Every state appears in the summary, zero or not.
	summary.Translations = map[string]int64{
		types.TranslationStatePending:    translations[types.TranslationStatePending],
		types.TranslationStateTranslated: translations[types.TranslationStateTranslated],
		types.TranslationStateFailed:     translations[types.TranslationStateFailed],
	}
	summary.Documents = map[string]int64{
		types.DocStateQueued:   documents[types.DocStateQueued],
		types.DocStateUpserted: documents[types.DocStateUpserted],
		types.DocStateFailed:   documents[types.DocStateFailed],
	}
	return summary, nil
}

// ListDocuments pages through packaged documents with keyset pagination.
func (s *statusService) ListDocuments(ctx context.Context, filter repos.DocumentFilter) ([]*types.PortalChromaDoc, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.docRepo.List(ctx, nil, filter)
}
