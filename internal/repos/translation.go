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

type TranslationFilter struct {
	Entity      string
	SrcLang     string
	TgtLang     string
	RetryFailed bool
	MaxAttempts int
	Limit       int
}

type TranslationRepo interface {
	UpsertSource(ctx context.Context, tx *gorm.DB, rec *types.PortalTranslation, mode pipeline.Mode) (UpsertOutcome, error)
	GetByKey(ctx context.Context, tx *gorm.DB, entity, naturalKey, srcLang, tgtLang string) (*types.PortalTranslation, error)
	PickPending(ctx context.Context, tx *gorm.DB, filter TranslationFilter) ([]*types.PortalTranslation, error)
	MarkTranslated(ctx context.Context, tx *gorm.DB, id int64, sourceHash, translatedText string) (bool, error)
	MarkFailed(ctx context.Context, tx *gorm.DB, id int64, sourceHash, lastError string) (bool, error)
	ListTranslated(ctx context.Context, tx *gorm.DB, entity, srcLang, tgtLang string) ([]*types.PortalTranslation, error)
	CountByState(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}

type translationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranslationRepo(db *gorm.DB, baseLog *logger.Logger) TranslationRepo {
	repoLog := baseLog.With("repo", "TranslationRepo")
	return &translationRepo{db: db, log: repoLog}
}

// UpsertSource enqueues rec under its (entity, natural_key, src_lang,
// tgt_lang) identity, applying the source-hash gate for mode. A changed hash
// resets the row to pending and wipes the previous result.
func (r *translationRepo) UpsertSource(ctx context.Context, tx *gorm.DB, rec *types.PortalTranslation, mode pipeline.Mode) (UpsertOutcome, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var existing types.PortalTranslation
	err := transaction.WithContext(ctx).
		Where("entity = ? AND natural_key = ? AND src_lang = ? AND tgt_lang = ?",
			rec.Entity, rec.NaturalKey, rec.SrcLang, rec.TgtLang).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec.State = types.TranslationStatePending
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
		Model(&types.PortalTranslation{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"model":           rec.Model,
			"model_table":     rec.ModelTable,
			"source_text":     rec.SourceText,
			"source_hash":     rec.SourceHash,
			"translated_text": "",
			"state":           types.TranslationStatePending,
			"attempts":        0,
			"last_error":      "",
		}).Error; err != nil {
		return "", err
	}
	return OutcomeUpdated, nil
}

func (r *translationRepo) GetByKey(ctx context.Context, tx *gorm.DB, entity, naturalKey, srcLang, tgtLang string) (*types.PortalTranslation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PortalTranslation
	if err := transaction.WithContext(ctx).
		Where("entity = ? AND natural_key = ? AND src_lang = ? AND tgt_lang = ?",
			entity, naturalKey, srcLang, tgtLang).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// PickPending selects work for the translation stage. Failed rows are only
// included when filter.RetryFailed is set and their attempt count is below
// filter.MaxAttempts.
func (r *translationRepo) PickPending(ctx context.Context, tx *gorm.DB, filter TranslationFilter) ([]*types.PortalTranslation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.PortalTranslation{})
	if filter.RetryFailed {
		query = query.Where("state = ? OR (state = ? AND attempts < ?)",
			types.TranslationStatePending, types.TranslationStateFailed, filter.MaxAttempts)
	} else {
		query = query.Where("state = ?", types.TranslationStatePending)
	}
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.SrcLang != "" {
		query = query.Where("src_lang = ?", filter.SrcLang)
	}
	if filter.TgtLang != "" {
		query = query.Where("tgt_lang = ?", filter.TgtLang)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var results []*types.PortalTranslation
	if err := query.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkTranslated finishes a work item. The WHERE clause re-checks state and
// source_hash so a row re-gated mid-flight keeps its fresh pending source;
// the returned bool reports whether the update applied.
func (r *translationRepo) MarkTranslated(ctx context.Context, tx *gorm.DB, id int64, sourceHash, translatedText string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.PortalTranslation{}).
		Where("id = ? AND source_hash = ? AND state IN ?",
			id, sourceHash, []string{types.TranslationStatePending, types.TranslationStateFailed}).
		Updates(map[string]any{
			"translated_text": translatedText,
			"state":           types.TranslationStateTranslated,
			"attempts":        gorm.Expr("attempts + 1"),
			"last_error":      "",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *translationRepo) MarkFailed(ctx context.Context, tx *gorm.DB, id int64, sourceHash, lastError string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.PortalTranslation{}).
		Where("id = ? AND source_hash = ? AND state IN ?",
			id, sourceHash, []string{types.TranslationStatePending, types.TranslationStateFailed}).
		Updates(map[string]any{
			"state":      types.TranslationStateFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *translationRepo) ListTranslated(ctx context.Context, tx *gorm.DB, entity, srcLang, tgtLang string) ([]*types.PortalTranslation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.PortalTranslation{}).
		Where("state = ?", types.TranslationStateTranslated)
	if entity != "" {
		query = query.Where("entity = ?", entity)
	}
	if srcLang != "" {
		query = query.Where("src_lang = ?", srcLang)
	}
	if tgtLang != "" {
		query = query.Where("tgt_lang = ?", tgtLang)
	}

	var results []*types.PortalTranslation
	if err := query.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *translationRepo) CountByState(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
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
		Model(&types.PortalTranslation{}).
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
