package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/pipeline"
	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/types"
)

type DocumentFilter struct {
	Entity     string
	Lang       string
	State      string
	Collection string
	AfterID    int64
	Limit      int
}

type DocumentRepo interface {
	UpsertPackaged(ctx context.Context, tx *gorm.DB, rec *types.PortalChromaDoc, mode pipeline.Mode) (UpsertOutcome, error)
	GetByKey(ctx context.Context, tx *gorm.DB, entity, naturalKey, lang string) (*types.PortalChromaDoc, error)
	ListQueued(ctx context.Context, tx *gorm.DB, collection string, limit, maxAttempts int) ([]*types.PortalChromaDoc, error)
	MarkUpserted(ctx context.Context, tx *gorm.DB, id int64, sourceHash string) (bool, error)
	MarkFailed(ctx context.Context, tx *gorm.DB, id int64, sourceHash, lastError string) (bool, error)
	Requeue(ctx context.Context, tx *gorm.DB, filter DocumentFilter) (int64, error)
	List(ctx context.Context, tx *gorm.DB, filter DocumentFilter) ([]*types.PortalChromaDoc, error)
	CountByState(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

// UpsertPackaged stores an assembled document under its (entity, natural_key,
// lang) identity with the same hash gate as the translation queue. A changed
// hash re-queues the row for indexing.
func (r *documentRepo) UpsertPackaged(ctx context.Context, tx *gorm.DB, rec *types.PortalChromaDoc, mode pipeline.Mode) (UpsertOutcome, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var existing types.PortalChromaDoc
	err := transaction.WithContext(ctx).
		Where("entity = ? AND natural_key = ? AND lang = ?",
			rec.Entity, rec.NaturalKey, rec.Lang).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec.State = types.DocStateQueued
		rec.Attempts = 0
		if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
			return "", err
		}
		return OutcomeInserted, nil
	}
	if err != nil {
		return "", err
	}

	switch mode {
	case pipeline.ModeSkipExisting:
		return OutcomeSkippedExisting, nil
	case pipeline.ModeUpsertIfChanged:
		if existing.SourceHash == rec.SourceHash {
			return OutcomeSkippedNoChange, nil
		}
	}

	if err := transaction.WithContext(ctx).
		Model(&types.PortalChromaDoc{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"doc_id":      rec.DocID,
			"collection":  rec.Collection,
			"doc_text":    rec.DocText,
			"meta":        rec.Meta,
			"source_hash": rec.SourceHash,
			"state":       types.DocStateQueued,
			"attempts":    0,
			"last_error":  "",
		}).Error; err != nil {
		return "", err
	}
	return OutcomeUpdated, nil
}

func (r *documentRepo) GetByKey(ctx context.Context, tx *gorm.DB, entity, naturalKey, lang string) (*types.PortalChromaDoc, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PortalChromaDoc
	if err := transaction.WithContext(ctx).
		Where("entity = ? AND natural_key = ? AND lang = ?", entity, naturalKey, lang).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// ListQueued selects documents awaiting an index push: queued rows plus
// failed rows still below the attempt cap.
func (r *documentRepo) ListQueued(ctx context.Context, tx *gorm.DB, collection string, limit, maxAttempts int) ([]*types.PortalChromaDoc, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.PortalChromaDoc{}).
		Where("state = ? OR (state = ? AND attempts < ?)",
			types.DocStateQueued, types.DocStateFailed, maxAttempts)
	if collection != "" {
		query = query.Where("collection = ?", collection)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*types.PortalChromaDoc
	if err := query.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) MarkUpserted(ctx context.Context, tx *gorm.DB, id int64, sourceHash string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.PortalChromaDoc{}).
		Where("id = ? AND source_hash = ? AND state IN ?",
			id, sourceHash, []string{types.DocStateQueued, types.DocStateFailed}).
		Updates(map[string]any{
			"state":      types.DocStateUpserted,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": "",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *documentRepo) MarkFailed(ctx context.Context, tx *gorm.DB, id int64, sourceHash, lastError string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.PortalChromaDoc{}).
		Where("id = ? AND source_hash = ? AND state IN ?",
			id, sourceHash, []string{types.DocStateQueued, types.DocStateFailed}).
		Updates(map[string]any{
			"state":      types.DocStateFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Requeue flips matching rows back to queued with a fresh attempt budget.
// Used by the reindex tool after a collection is rebuilt.
func (r *documentRepo) Requeue(ctx context.Context, tx *gorm.DB, filter DocumentFilter) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.PortalChromaDoc{})
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.Lang != "" {
		query = query.Where("lang = ?", filter.Lang)
	}
	if filter.Collection != "" {
		query = query.Where("collection = ?", filter.Collection)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}

	res := query.Updates(map[string]any{
		"state":      types.DocStateQueued,
		"attempts":   0,
		"last_error": "",
	})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// List pages documents by ascending id using filter.AfterID as the cursor.
func (r *documentRepo) List(ctx context.Context, tx *gorm.DB, filter DocumentFilter) ([]*types.PortalChromaDoc, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.PortalChromaDoc{})
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.Lang != "" {
		query = query.Where("lang = ?", filter.Lang)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.Collection != "" {
		query = query.Where("collection = ?", filter.Collection)
	}
	if filter.AfterID > 0 {
		query = query.Where("id > ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var results []*types.PortalChromaDoc
	if err := query.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) CountByState(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	type row struct {
		State string
		N     int64
	}
	var rows []row
	if err := transaction.WithContext(ctx).
		Model(&types.PortalChromaDoc{}).
		Select("state, COUNT(*) AS n").
		Group("state").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.State] = rw.N
	}
	return counts, nil
}
