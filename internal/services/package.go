package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/textutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

const (
	DefaultCollectionField      = "portal_field_ja"
	DefaultCollectionViewCommon = "portal_view_common_ja"
	DefaultPackTextLimit        = 16384
	packSamplesMax              = 5
)

type PackageInput struct {
	Entities    []string
	Lang        string
	Mode        pipeline.Mode
	Collections map[string]string
	TextLimit   int
}

type PackageSample struct {
	DocID      string `json:"doc_id"`
	Collection string `json:"collection"`
	Model      string `json:"model,omitempty"`
	Status     string `json:"status"`
}

type PackageResult struct {
	Queued          int             `json:"queued"`
	SkippedNoChange int             `json:"skipped_no_change"`
	Failed          int             `json:"failed"`
	Samples         []PackageSample `json:"samples"`
}

// PackageService assembles translated rows into vector-store documents:
// joins the portal metadata back in, renders the fixed document templates,
// truncates UTF-8-safely and upserts behind the hash gate.
type PackageService interface {
	Run(ctx context.Context, in PackageInput) (*PackageResult, error)
}

type packageService struct {
	db        *gorm.DB
	log       *logger.Logger
	transRepo repos.TranslationRepo
	fieldRepo repos.PortalFieldRepo
	vcRepo    repos.PortalViewCommonRepo
	docRepo   repos.DocumentRepo
}

func NewPackageService(db *gorm.DB, log *logger.Logger, transRepo repos.TranslationRepo, fieldRepo repos.PortalFieldRepo, vcRepo repos.PortalViewCommonRepo, docRepo repos.DocumentRepo) PackageService {
	serviceLog := log.With("service", "PackageService")
	return &packageService{
		db:        db,
		log:       serviceLog,
		transRepo: transRepo,
		fieldRepo: fieldRepo,
		vcRepo:    vcRepo,
		docRepo:   docRepo,
	}
}

func (s *packageService) Run(ctx context.Context, in PackageInput) (*PackageResult, error) {
	entities := in.Entities
	if len(entities) == 0 {
		entities = []string{string(naturalkey.EntityField), string(naturalkey.EntityViewCommon)}
	}
	lang := strings.TrimSpace(in.Lang)
	if lang == "" {
		lang = DefaultSrcLang
	}
	mode := in.Mode
	if mode == "" {
		mode = pipeline.ModeUpsertIfChanged
	}
	textLimit := in.TextLimit
	if textLimit <= 0 {
		textLimit = DefaultPackTextLimit
	}
	fieldColl := in.Collections[string(naturalkey.EntityField)]
	if fieldColl == "" {
		fieldColl = DefaultCollectionField
	}
	vcColl := in.Collections[string(naturalkey.EntityViewCommon)]
	if vcColl == "" {
		vcColl = DefaultCollectionViewCommon
	}

	res := &PackageResult{Samples: []PackageSample{}}

	for _, entity := range entities {
		parsed, err := naturalkey.ParseEntity(entity)
		if err != nil {
			s.log.Warn("package skip: unsupported entity", "entity", entity)
			continue
		}
		rows, err := s.transRepo.ListTranslated(ctx, nil, string(parsed), "", "")
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			switch parsed {
			case naturalkey.EntityField:
				s.packField(ctx, res, row, lang, fieldColl, textLimit, mode)
			case naturalkey.EntityViewCommon:
				s.packViewCommon(ctx, res, row, lang, vcColl, textLimit, mode)
			}
		}
	}
	return res, nil
}

func (s *packageService) packField(ctx context.Context, res *PackageResult, row *types.PortalTranslation, lang, collection string, textLimit int, mode pipeline.Mode) {
	model, fieldName, err := naturalkey.SplitFieldKey(row.NaturalKey)
	if err != nil {
		s.recordFailure(res, collection, "", "invalid_natural_key", row.NaturalKey, err)
		return
	}

	field, err := s.fieldRepo.GetByKey(ctx, nil, model, fieldName)
	if err != nil {
		s.recordFailure(res, collection, model, "field_meta_not_found", row.NaturalKey, err)
		return
	}

	labelJa := textutil.NormalizeLabel(labelLang(field.LabelI18n, DefaultSrcLang))
	notesJa := textutil.NormalizeLongText(field.Notes, 2)
	sourceHash := pipeline.HashText(labelJa + "\n\n" + notesJa)

	label, notes := labelJa, notesJa
	if lang != DefaultSrcLang && lang == row.TgtLang && strings.TrimSpace(row.TranslatedText) != "" {
		label, notes = splitLabelNotes(row.TranslatedText)
	}

	docText := RenderFieldDoc(label, model, fieldName, field.ModelTable, field.TType, field.JPDatatype, notes)
	docText = textutil.TruncateUTF8(docText, textLimit)

	meta := map[string]any{
		"entity":      string(naturalkey.EntityField),
		"natural_key": row.NaturalKey,
		"lang":        lang,
		"model":       model,
		"model_table": field.ModelTable,
		"field_name":  fieldName,
		"ttype":       field.TType,
		"collection":  collection,
		"label_ja":    labelJa,
		"notes_ja":    notesJa,
	}
	s.upsertDoc(ctx, res, naturalkey.EntityField, row.NaturalKey, lang, collection, model, docText, meta, sourceHash, mode)
}

func (s *packageService) packViewCommon(ctx context.Context, res *PackageResult, row *types.PortalTranslation, lang, collection string, textLimit int, mode pipeline.Mode) {
	actionXMLID, target, err := naturalkey.SplitViewCommonKey(row.NaturalKey)
	if err != nil {
		s.recordFailure(res, collection, "", "invalid_natural_key", row.NaturalKey, err)
		return
	}

	vc, err := s.vcRepo.GetByXMLID(ctx, nil, actionXMLID)
	if err != nil {
		s.recordFailure(res, collection, "", "view_common_not_found", row.NaturalKey, err)
		return
	}

	purposeJa := textutil.NormalizeLabel(vc.AIPurpose)
	helpJa := textutil.NormalizeLongText(textutil.StripHTML(vc.HelpJaText), 2)
	sourceHash := pipeline.HashText(purposeJa + "\n\n" + helpJa)

	purpose, help := purposeJa, helpJa
	if lang != DefaultSrcLang && lang == row.TgtLang {
		switch target {
		case naturalkey.TargetAIPurpose:
			if strings.TrimSpace(row.TranslatedText) != "" {
				purpose = strings.TrimSpace(row.TranslatedText)
			}
			help = s.siblingTranslation(ctx, actionXMLID, naturalkey.TargetHelp, row, help)
		case naturalkey.TargetHelp:
			if strings.TrimSpace(row.TranslatedText) != "" {
				help = strings.TrimSpace(row.TranslatedText)
			}
			purpose = s.siblingTranslation(ctx, actionXMLID, naturalkey.TargetAIPurpose, row, purpose)
		}
	}

	actionDisplay := vc.ActionName
	if strings.TrimSpace(actionDisplay) == "" {
		actionDisplay = actionXMLID
	}
	docText := RenderViewCommonDoc(actionDisplay, purpose, help, vc.ModelTech, vc.ModelTable, vc.PrimaryViewType)
	docText = textutil.TruncateUTF8(docText, textLimit)

	var viewTypes any
	if len(vc.ViewTypes) > 0 {
		_ = json.Unmarshal(vc.ViewTypes, &viewTypes)
	}
	meta := map[string]any{
		"entity":            string(naturalkey.EntityViewCommon),
		"natural_key":       row.NaturalKey,
		"lang":              lang,
		"action_xmlid":      actionXMLID,
		"model_tech":        vc.ModelTech,
		"model_table":       vc.ModelTable,
		"primary_view_type": vc.PrimaryViewType,
		"collection":        collection,
		"ai_purpose_ja":     purposeJa,
		"help_ja_text":      helpJa,
		"view_types":        viewTypes,
		"common_id":         vc.ID,
		"target":            string(target),
	}
	s.upsertDoc(ctx, res, naturalkey.EntityViewCommon, row.NaturalKey, lang, collection, vc.ModelTech, docText, meta, sourceHash, mode)
}

// siblingTranslation returns the other target's translated text for the same
// action, falling back to the source-language text.
func (s *packageService) siblingTranslation(ctx context.Context, actionXMLID string, target naturalkey.Target, row *types.PortalTranslation, fallback string) string {
	nk, err := naturalkey.BuildViewCommonKey(actionXMLID, target)
	if err != nil {
		return fallback
	}
	sibling, err := s.transRepo.GetByKey(ctx, nil, string(naturalkey.EntityViewCommon), nk, row.SrcLang, row.TgtLang)
	if err != nil || sibling.State != types.TranslationStateTranslated || strings.TrimSpace(sibling.TranslatedText) == "" {
		return fallback
	}
	return strings.TrimSpace(sibling.TranslatedText)
}

func (s *packageService) upsertDoc(ctx context.Context, res *PackageResult, entity naturalkey.Entity, nk, lang, collection, model, docText string, meta map[string]any, sourceHash string, mode pipeline.Mode) {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		s.recordFailure(res, collection, model, "meta_encode_failed", nk, err)
		return
	}

	rec := &types.PortalChromaDoc{
		Entity:     string(entity),
		NaturalKey: nk,
		Lang:       lang,
		DocID:      pipeline.DocumentID(entity, nk, lang),
		Collection: collection,
		DocText:    docText,
		Meta:       datatypes.JSON(metaJSON),
		SourceHash: sourceHash,
	}
	outcome, err := s.docRepo.UpsertPackaged(ctx, nil, rec, mode)
	if err != nil {
		s.recordFailure(res, collection, model, "doc_upsert_failed", nk, err)
		return
	}
	switch outcome {
	case repos.OutcomeSkippedNoChange, repos.OutcomeSkippedExisting:
		res.SkippedNoChange++
	default:
		res.Queued++
		if len(res.Samples) < packSamplesMax {
			res.Samples = append(res.Samples, PackageSample{
				DocID:      rec.DocID,
				Collection: collection,
				Model:      model,
				Status:     types.DocStateQueued,
			})
		}
	}
}

func (s *packageService) recordFailure(res *PackageResult, collection, model, reason, nk string, err error) {
	res.Failed++
	s.log.Warn(fmt.Sprintf("package failed: reason=%s", reason), "natural_key", nk, "error", err)
	if len(res.Samples) < packSamplesMax {
		res.Samples = append(res.Samples, PackageSample{
			Collection: collection,
			Model:      model,
			Status:     "failed",
		})
	}
}

// splitLabelNotes splits a translated payload back into label and notes. The
// extraction stage joins them with a blank line, so the first paragraph is
// the label.
func splitLabelNotes(text string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(text), "\n\n", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(parts[0]), ""
}
