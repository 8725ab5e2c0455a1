package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/types"
)

type PortalViewRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, views []*types.PortalView) ([]*types.PortalView, error)
	GetByCommonAndType(ctx context.Context, tx *gorm.DB, commonID int64, viewType string) (*types.PortalView, error)
	ListByCommon(ctx context.Context, tx *gorm.DB, commonID int64) ([]*types.PortalView, error)
	SetPrimary(ctx context.Context, tx *gorm.DB, commonID int64, viewType string) error
}

type portalViewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalViewRepo(db *gorm.DB, baseLog *logger.Logger) PortalViewRepo {
	repoLog := baseLog.With("repo", "PortalViewRepo")
	return &portalViewRepo{db: db, log: repoLog}
}

func (r *portalViewRepo) Upsert(ctx context.Context, tx *gorm.DB, views []*types.PortalView) ([]*types.PortalView, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(views) == 0 {
		return []*types.PortalView{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "common_id"}, {Name: "view_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"model", "name", "enabled", "notes", "updated_at"}),
		}).
		Create(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *portalViewRepo) GetByCommonAndType(ctx context.Context, tx *gorm.DB, commonID int64, viewType string) (*types.PortalView, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PortalView
	if err := transaction.WithContext(ctx).
		Where("common_id = ? AND view_type = ?", commonID, types.NormalizeViewType(viewType)).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *portalViewRepo) ListByCommon(ctx context.Context, tx *gorm.DB, commonID int64) ([]*types.PortalView, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PortalView
	if err := transaction.WithContext(ctx).
		Where("common_id = ?", commonID).
		Order("view_type ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SetPrimary marks exactly one view of a common as primary. Both updates run
// in a single transaction so no reader ever observes two primary views.
func (r *portalViewRepo) SetPrimary(ctx context.Context, tx *gorm.DB, commonID int64, viewType string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	vt := types.NormalizeViewType(viewType)
	return transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
		res := innerTx.Model(&types.PortalView{}).
			Where("common_id = ? AND view_type = ?", commonID, vt).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("view %q for common %d: %w", vt, commonID, pkgerrors.ErrNotFound)
		}
		if err := innerTx.Model(&types.PortalView{}).
			Where("common_id = ? AND view_type <> ? AND is_primary", commonID, vt).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return innerTx.Model(&types.PortalViewCommon{}).
			Where("id = ?", commonID).
			Update("primary_view_type", vt).Error
	})
}
