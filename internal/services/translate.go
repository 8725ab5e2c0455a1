package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/textutil"
)

const (
	defaultTranslateLimit       = 200
	defaultTranslateConcurrency = 4
	defaultTranslateMaxAttempts = 3
	maxTranslateSourceBytes     = 8192
)

type TranslateInput struct {
	Entity      string
	SrcLang     string
	TgtLang     string
	Limit       int
	Concurrency int
	RetryFailed bool
	MaxAttempts int
}

type TranslateResult struct {
	Picked     int `json:"picked"`
	Translated int `json:"translated"`
	Failed     int `json:"failed"`
	Stale      int `json:"stale"`
}

// TranslateService drains the pending translation queue through a bounded
// worker pool. Each row finishes with a conditional state transition, so a
// row whose source was re-gated mid-flight is left alone and counted stale.
type TranslateService interface {
	Run(ctx context.Context, in TranslateInput) (*TranslateResult, error)
}

type translateService struct {
	db         *gorm.DB
	log        *logger.Logger
	transRepo  repos.TranslationRepo
	translator Translator
}

func NewTranslateService(db *gorm.DB, log *logger.Logger, transRepo repos.TranslationRepo, translator Translator) TranslateService {
	serviceLog := log.With("service", "TranslateService")
	return &translateService{
		db:         db,
		log:        serviceLog,
		transRepo:  transRepo,
		translator: translator,
	}
}

func (s *translateService) Run(ctx context.Context, in TranslateInput) (*TranslateResult, error) {
	srcLang, tgtLang := normalizeLangs(in.SrcLang, in.TgtLang)
	limit := in.Limit
	if limit <= 0 {
		limit = defaultTranslateLimit
	}
	concurrency := in.Concurrency
	if concurrency <= 0 {
		concurrency = defaultTranslateConcurrency
	}
	maxAttempts := in.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultTranslateMaxAttempts
	}

	rows, err := s.transRepo.PickPending(ctx, nil, repos.TranslationFilter{
		Entity:      in.Entity,
		SrcLang:     srcLang,
		TgtLang:     tgtLang,
		RetryFailed: in.RetryFailed,
		MaxAttempts: maxAttempts,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	res := &TranslateResult{Picked: len(rows)}
	if len(rows) == 0 {
		return res, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, row := range rows {
		row := row
		g.Go(func() error {
			source := textutil.TruncateUTF8(row.SourceText, maxTranslateSourceBytes)
			translated, terr := s.translator.Translate(gctx, row.SrcLang, row.TgtLang, source)
			if terr != nil {
				applied, merr := s.transRepo.MarkFailed(gctx, nil, row.ID, row.SourceHash, terr.Error())
				if merr != nil {
					return merr
				}
				s.log.Warn("translation failed",
					"natural_key", row.NaturalKey,
					"tgt_lang", row.TgtLang,
					"error", terr,
				)
				mu.Lock()
				if applied {
					res.Failed++
				} else {
					res.Stale++
				}
				mu.Unlock()
				return nil
			}

			applied, merr := s.transRepo.MarkTranslated(gctx, nil, row.ID, row.SourceHash, translated)
			if merr != nil {
				return merr
			}
			mu.Lock()
			if applied {
				res.Translated++
			} else {
				res.Stale++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
