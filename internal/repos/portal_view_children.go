package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/types"
)

type PortalTabRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, tabs []*types.PortalTab) ([]*types.PortalTab, error)
	ListByView(ctx context.Context, tx *gorm.DB, viewID int64) ([]*types.PortalTab, error)
}

type portalTabRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalTabRepo(db *gorm.DB, baseLog *logger.Logger) PortalTabRepo {
	repoLog := baseLog.With("repo", "PortalTabRepo")
	return &portalTabRepo{db: db, log: repoLog}
}

func (r *portalTabRepo) Upsert(ctx context.Context, tx *gorm.DB, tabs []*types.PortalTab) ([]*types.PortalTab, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(tabs) == 0 {
		return []*types.PortalTab{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "view_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"label_i18n", "sequence", "updated_at"}),
		}).
		Create(&tabs).Error; err != nil {
		return nil, err
	}
	return tabs, nil
}

func (r *portalTabRepo) ListByView(ctx context.Context, tx *gorm.DB, viewID int64) ([]*types.PortalTab, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PortalTab
	if err := transaction.WithContext(ctx).
		Where("view_id = ?", viewID).
		Order("sequence ASC, name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type PortalSmartButtonRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, buttons []*types.PortalSmartButton) ([]*types.PortalSmartButton, error)
	ListByView(ctx context.Context, tx *gorm.DB, viewID int64) ([]*types.PortalSmartButton, error)
}

type portalSmartButtonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalSmartButtonRepo(db *gorm.DB, baseLog *logger.Logger) PortalSmartButtonRepo {
	repoLog := baseLog.With("repo", "PortalSmartButtonRepo")
	return &portalSmartButtonRepo{db: db, log: repoLog}
}

func (r *portalSmartButtonRepo) Upsert(ctx context.Context, tx *gorm.DB, buttons []*types.PortalSmartButton) ([]*types.PortalSmartButton, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(buttons) == 0 {
		return []*types.PortalSmartButton{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "view_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"label_i18n", "action_xmlid", "sequence", "updated_at"}),
		}).
		Create(&buttons).Error; err != nil {
		return nil, err
	}
	return buttons, nil
}

func (r *portalSmartButtonRepo) ListByView(ctx context.Context, tx *gorm.DB, viewID int64) ([]*types.PortalSmartButton, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PortalSmartButton
	if err := transaction.WithContext(ctx).
		Where("view_id = ?", viewID).
		Order("sequence ASC, name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type PortalMenuRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, menus []*types.PortalMenu) ([]*types.PortalMenu, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.PortalMenu, error)
}

type portalMenuRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortalMenuRepo(db *gorm.DB, baseLog *logger.Logger) PortalMenuRepo {
	repoLog := baseLog.With("repo", "PortalMenuRepo")
	return &portalMenuRepo{db: db, log: repoLog}
}

func (r *portalMenuRepo) Upsert(ctx context.Context, tx *gorm.DB, menus []*types.PortalMenu) ([]*types.PortalMenu, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(menus) == 0 {
		return []*types.PortalMenu{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "menu_xmlid"}},
			DoUpdates: clause.AssignmentColumns([]string{"parent_id", "label_i18n", "action_xmlid", "sequence", "updated_at"}),
		}).
		Create(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *portalMenuRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.PortalMenu, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PortalMenu
	if err := transaction.WithContext(ctx).
		Order("sequence ASC, menu_xmlid ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
