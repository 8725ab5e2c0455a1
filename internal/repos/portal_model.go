package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/types"
)

type PortalModelRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, models []*types.PortalModel) ([]*types.PortalModel, error)
	GetByModel(ctx context.Context, tx *gorm.DB, model string) (*types.PortalModel, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.PortalModel, error)
}

type portalModelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalModelRepo(db *gorm.DB, baseLog *logger.Logger) PortalModelRepo {
	repoLog := baseLog.With("repo", "PortalModelRepo")
	return &portalModelRepo{db: db, log: repoLog}
}

func (r *portalModelRepo) Upsert(ctx context.Context, tx *gorm.DB, models []*types.PortalModel) ([]*types.PortalModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(models) == 0 {
		return []*types.PortalModel{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model"}},
			DoUpdates: clause.AssignmentColumns([]string{"model_table", "label_i18n", "notes", "updated_at"}),
		}).
		Create(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *portalModelRepo) GetByModel(ctx context.Context, tx *gorm.DB, model string) (*types.PortalModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PortalModel
	if err := transaction.WithContext(ctx).
		Where("model = ?", model).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *portalModelRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.PortalModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PortalModel
	if err := transaction.WithContext(ctx).
		Order("model ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
