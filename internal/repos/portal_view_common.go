package repos

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/types"
)

type PortalViewCommonRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, commons []*types.PortalViewCommon) ([]*types.PortalViewCommon, error)
	GetByXMLID(ctx context.Context, tx *gorm.DB, actionXMLID string) (*types.PortalViewCommon, error)
	List(ctx context.Context, tx *gorm.DB, modelTech string) ([]*types.PortalViewCommon, error)
	UpdateAIPurposeI18n(ctx context.Context, tx *gorm.DB, actionXMLID string, i18n datatypes.JSON) error
	UpdateHelpEn(ctx context.Context, tx *gorm.DB, actionXMLID string, helpEn string) error
}

type portalViewCommonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalViewCommonRepo(db *gorm.DB, baseLog *logger.Logger) PortalViewCommonRepo {
	repoLog := baseLog.With("repo", "PortalViewCommonRepo")
	return &portalViewCommonRepo{db: db, log: repoLog}
}

func (r *portalViewCommonRepo) Upsert(ctx context.Context, tx *gorm.DB, commons []*types.PortalViewCommon) ([]*types.PortalViewCommon, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(commons) == 0 {
		return []*types.PortalViewCommon{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "action_xmlid"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"action_name", "model_tech", "model_table", "view_types",
				"primary_view_type", "ai_purpose", "help_ja_text", "notes", "updated_at",
			}),
		}).
		Create(&commons).Error; err != nil {
		return nil, err
	}
	return commons, nil
}

func (r *portalViewCommonRepo) GetByXMLID(ctx context.Context, tx *gorm.DB, actionXMLID string) (*types.PortalViewCommon, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PortalViewCommon
	if err := transaction.WithContext(ctx).
		Where("action_xmlid = ?", actionXMLID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// List returns commons ordered by action_xmlid; modelTech == "" lists all.
func (r *portalViewCommonRepo) List(ctx context.Context, tx *gorm.DB, modelTech string) ([]*types.PortalViewCommon, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.PortalViewCommon{})
	if modelTech != "" {
		query = query.Where("model_tech = ?", modelTech)
	}

	var results []*types.PortalViewCommon
	if err := query.Order("action_xmlid ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *portalViewCommonRepo) UpdateAIPurposeI18n(ctx context.Context, tx *gorm.DB, actionXMLID string, i18n datatypes.JSON) error {
	return r.updateByXMLID(ctx, tx, actionXMLID, map[string]any{"ai_purpose_i18n": i18n})
}

func (r *portalViewCommonRepo) UpdateHelpEn(ctx context.Context, tx *gorm.DB, actionXMLID string, helpEn string) error {
	return r.updateByXMLID(ctx, tx, actionXMLID, map[string]any{"help_en_text": helpEn})
}

func (r *portalViewCommonRepo) updateByXMLID(ctx context.Context, tx *gorm.DB, actionXMLID string, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.PortalViewCommon{}).
		Where("action_xmlid = ?", actionXMLID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
