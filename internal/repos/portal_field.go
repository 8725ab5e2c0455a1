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

type PortalFieldRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, fields []*types.PortalField) ([]*types.PortalField, error)
	GetByKey(ctx context.Context, tx *gorm.DB, model string, fieldName string) (*types.PortalField, error)
	List(ctx context.Context, tx *gorm.DB, model string) ([]*types.PortalField, error)
	UpdateLabel(ctx context.Context, tx *gorm.DB, model string, fieldName string, labelI18n datatypes.JSON) error
}

type portalFieldRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalFieldRepo(db *gorm.DB, baseLog *logger.Logger) PortalFieldRepo {
	repoLog := baseLog.With("repo", "PortalFieldRepo")
	return &portalFieldRepo{db: db, log: repoLog}
}

func (r *portalFieldRepo) Upsert(ctx context.Context, tx *gorm.DB, fields []*types.PortalField) ([]*types.PortalField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return []*types.PortalField{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model"}, {Name: "field_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"model_table", "ttype", "jp_datatype", "label_i18n", "notes", "updated_at"}),
		}).
		Create(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *portalFieldRepo) GetByKey(ctx context.Context, tx *gorm.DB, model string, fieldName string) (*types.PortalField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PortalField
	if err := transaction.WithContext(ctx).
		Where("model = ? AND field_name = ?", model, fieldName).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// List returns fields ordered by (model, field_name); model == "" lists all.
func (r *portalFieldRepo) List(ctx context.Context, tx *gorm.DB, model string) ([]*types.PortalField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.PortalField{})
	if model != "" {
		query = query.Where("model = ?", model)
	}

	var results []*types.PortalField
	if err := query.Order("model ASC, field_name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *portalFieldRepo) UpdateLabel(ctx context.Context, tx *gorm.DB, model string, fieldName string, labelI18n datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.PortalField{}).
		Where("model = ? AND field_name = ?", model, fieldName).
		Update("label_i18n", labelI18n)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
