package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/textutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

const (
	DefaultSrcLang = "ja"
	DefaultTgtLang = "en"
)

type ExtractFieldsInput struct {
	Models  []string
	Fields  []string
	Mode    pipeline.Mode
	SrcLang string
	TgtLang string
}

type ExtractViewCommonsInput struct {
	ActionXMLIDs []string
	Targets      []naturalkey.Target
	Mode         pipeline.Mode
	SrcLang      string
	TgtLang      string
}

type ExtractDetail struct {
	NaturalKey string `json:"natural_key"`
	Reason     string `json:"reason"`
}

type ExtractResult struct {
	Picked          int             `json:"picked"`
	Inserted        int             `json:"inserted"`
	Updated         int             `json:"updated"`
	SkippedNoJa     int             `json:"skipped_no_ja"`
	SkippedHasEn    int             `json:"skipped_has_en"`
	SkippedNotFound int             `json:"skipped_not_found"`
	Details         []ExtractDetail `json:"details"`
}

// ExtractService selects Japanese source texts out of the portal metadata
// tables and enqueues them for translation behind the source-hash gate.
type ExtractService interface {
	ExtractFields(ctx context.Context, in ExtractFieldsInput) (*ExtractResult, error)
	ExtractViewCommons(ctx context.Context, in ExtractViewCommonsInput) (*ExtractResult, error)
}

type extractService struct {
	db        *gorm.DB
	log       *logger.Logger
	fieldRepo repos.PortalFieldRepo
	vcRepo    repos.PortalViewCommonRepo
	transRepo repos.TranslationRepo
}

func NewExtractService(db *gorm.DB, log *logger.Logger, fieldRepo repos.PortalFieldRepo, vcRepo repos.PortalViewCommonRepo, transRepo repos.TranslationRepo) ExtractService {
	serviceLog := log.With("service", "ExtractService")
	return &extractService{
		db:        db,
		log:       serviceLog,
		fieldRepo: fieldRepo,
		vcRepo:    vcRepo,
		transRepo: transRepo,
	}
}

func labelLang(raw []byte, lang string) string {
	if len(raw) == 0 {
		return ""
	}
	var labels map[string]any
	if err := json.Unmarshal(raw, &labels); err != nil {
		return ""
	}
	for _, key := range []string{lang, lang + "_" + strings.ToUpper(lang)} {
		if v, ok := labels[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	// ja also matches ja_JP style keys
	prefix := lang + "_"
	for key, val := range labels {
		if strings.HasPrefix(key, prefix) {
			if v, ok := val.(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func hasLang(raw []byte, lang string, extra string) bool {
	if strings.TrimSpace(extra) != "" {
		return true
	}
	return labelLang(raw, lang) != ""
}

func normalizeLangs(src, tgt string) (string, string) {
	if strings.TrimSpace(src) == "" {
		src = DefaultSrcLang
	}
	if strings.TrimSpace(tgt) == "" {
		tgt = DefaultTgtLang
	}
	return src, tgt
}

func (s *extractService) enqueue(ctx context.Context, res *ExtractResult, rec *types.PortalTranslation, mode pipeline.Mode) error {
	outcome, err := s.transRepo.UpsertSource(ctx, nil, rec, mode)
	if err != nil {
		return err
	}
	switch outcome {
	case repos.OutcomeInserted:
		res.Inserted++
	case repos.OutcomeUpdated:
		res.Updated++
	case repos.OutcomeSkippedNoChange:
		res.Details = append(res.Details, ExtractDetail{NaturalKey: rec.NaturalKey, Reason: "no_change"})
	case repos.OutcomeSkippedExisting:
		res.Details = append(res.Details, ExtractDetail{NaturalKey: rec.NaturalKey, Reason: "exists_skip"})
	}
	return nil
}

func (s *extractService) ExtractFields(ctx context.Context, in ExtractFieldsInput) (*ExtractResult, error) {
	srcLang, tgtLang := normalizeLangs(in.SrcLang, in.TgtLang)
	mode := in.Mode
	if mode == "" {
		mode = pipeline.ModeUpsertIfChanged
	}

	wantModels := toLowerSet(in.Models)
	wantFields := toLowerSet(in.Fields)

	res := &ExtractResult{Details: []ExtractDetail{}}

	fields, err := s.fieldRepo.List(ctx, nil, "")
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		if len(wantModels) > 0 {
			if _, ok := wantModels[strings.ToLower(f.Model)]; !ok {
				continue
			}
		}
		if len(wantFields) > 0 {
			if _, ok := wantFields[strings.ToLower(f.FieldName)]; !ok {
				continue
			}
		}

		nk, err := naturalkey.BuildFieldKey(f.Model, f.FieldName)
		if err != nil {
			s.log.Warn("extract skip: invalid field identity", "model", f.Model, "field", f.FieldName, "error", err)
			continue
		}

		jaLabel := textutil.NormalizeLabel(labelLang(f.LabelI18n, srcLang))
		jaNotes := textutil.NormalizeLongText(f.Notes, 2)
		srcText := jaLabel
		if jaNotes != "" {
			srcText = strings.TrimSpace(srcText + "\n\n" + jaNotes)
		}

		if srcText == "" {
			res.SkippedNoJa++
			res.Details = append(res.Details, ExtractDetail{NaturalKey: nk, Reason: "no_ja"})
			continue
		}
		if hasLang(f.LabelI18n, tgtLang, "") {
			res.SkippedHasEn++
			res.Details = append(res.Details, ExtractDetail{NaturalKey: nk, Reason: "has_en"})
			continue
		}

		res.Picked++
		rec := &types.PortalTranslation{
			Entity:     string(naturalkey.EntityField),
			NaturalKey: nk,
			SrcLang:    srcLang,
			TgtLang:    tgtLang,
			Model:      f.Model,
			ModelTable: f.ModelTable,
			SourceText: srcText,
			SourceHash: pipeline.HashText(srcText),
		}
		if err := s.enqueue(ctx, res, rec, mode); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *extractService) ExtractViewCommons(ctx context.Context, in ExtractViewCommonsInput) (*ExtractResult, error) {
	srcLang, tgtLang := normalizeLangs(in.SrcLang, in.TgtLang)
	mode := in.Mode
	if mode == "" {
		mode = pipeline.ModeUpsertIfChanged
	}
	targets := in.Targets
	if len(targets) == 0 {
		targets = []naturalkey.Target{naturalkey.TargetAIPurpose, naturalkey.TargetHelp}
	}

	res := &ExtractResult{Details: []ExtractDetail{}}
	if len(in.ActionXMLIDs) == 0 {
		return res, nil
	}

	for _, xmlid := range in.ActionXMLIDs {
		vc, err := s.vcRepo.GetByXMLID(ctx, nil, strings.ToLower(strings.TrimSpace(xmlid)))
		if err != nil {
			res.SkippedNotFound++
			res.Details = append(res.Details, ExtractDetail{
				NaturalKey: "view_common::" + xmlid + "::*",
				Reason:     "not_found",
			})
			continue
		}
		for _, target := range targets {
			if err := s.extractViewCommonTarget(ctx, res, vc, target, srcLang, tgtLang, mode); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (s *extractService) extractViewCommonTarget(ctx context.Context, res *ExtractResult, vc *types.PortalViewCommon, target naturalkey.Target, srcLang, tgtLang string, mode pipeline.Mode) error {
	nk, err := naturalkey.BuildViewCommonKey(vc.ActionXMLID, target)
	if err != nil {
		s.log.Warn("extract skip: invalid view_common identity", "action_xmlid", vc.ActionXMLID, "error", err)
		return nil
	}

	var srcText string
	var hasTgt bool
	switch target {
	case naturalkey.TargetAIPurpose:
		src := vc.AIPurpose
		if strings.TrimSpace(src) == "" {
			src = labelLang(vc.AIPurposeI18n, srcLang)
		}
		srcText = textutil.NormalizeLabel(src)
		hasTgt = hasLang(vc.AIPurposeI18n, tgtLang, "")
	case naturalkey.TargetHelp:
		srcText = textutil.NormalizeLongText(textutil.StripHTML(vc.HelpJaText), 2)
		hasTgt = strings.TrimSpace(vc.HelpEnText) != ""
	}

	if srcText == "" {
		res.SkippedNoJa++
		res.Details = append(res.Details, ExtractDetail{NaturalKey: nk, Reason: "no_ja"})
		return nil
	}
	if hasTgt {
		res.SkippedHasEn++
		res.Details = append(res.Details, ExtractDetail{NaturalKey: nk, Reason: "has_en"})
		return nil
	}

	res.Picked++
	rec := &types.PortalTranslation{
		Entity:     string(naturalkey.EntityViewCommon),
		NaturalKey: nk,
		SrcLang:    srcLang,
		TgtLang:    tgtLang,
		Model:      vc.ModelTech,
		ModelTable: vc.ModelTable,
		SourceText: srcText,
		SourceHash: pipeline.HashText(srcText),
	}
	return s.enqueue(ctx, res, rec, mode)
}

func toLowerSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
