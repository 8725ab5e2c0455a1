package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/types"
)

type WritebackMode string

const (
	WritebackSkipIfExists WritebackMode = "skip_if_exists"
	WritebackOverwrite    WritebackMode = "overwrite"
)

type WritebackFieldsInput struct {
	Model   string
	Fields  []string
	Lang    string
	Mode    WritebackMode
	SrcLang string
}

type WritebackViewCommonsInput struct {
	ActionXMLIDs []string
	Targets      []naturalkey.Target
	Lang         string
	Mode         WritebackMode
	SrcLang      string
}

type WritebackResult struct {
	Updated map[string]int `json:"updated"`
	Skipped int            `json:"skipped"`
}

// WritebackService copies finished translations back onto the source
// metadata tables: field labels into label_i18n, view purposes into
// ai_purpose_i18n, view helps into help_en_text.
type WritebackService interface {
	WritebackFields(ctx context.Context, in WritebackFieldsInput) (*WritebackResult, error)
	WritebackViewCommons(ctx context.Context, in WritebackViewCommonsInput) (*WritebackResult, error)
}

type writebackService struct {
	db        *gorm.DB
	log       *logger.Logger
	fieldRepo repos.PortalFieldRepo
	vcRepo    repos.PortalViewCommonRepo
	transRepo repos.TranslationRepo
}

func NewWritebackService(db *gorm.DB, log *logger.Logger, fieldRepo repos.PortalFieldRepo, vcRepo repos.PortalViewCommonRepo, transRepo repos.TranslationRepo) WritebackService {
	serviceLog := log.With("service", "WritebackService")
	return &writebackService{
		db:        db,
		log:       serviceLog,
		fieldRepo: fieldRepo,
		vcRepo:    vcRepo,
		transRepo: transRepo,
	}
}

func (s *writebackService) translatedText(ctx context.Context, entity naturalkey.Entity, nk, srcLang, tgtLang string) string {
	row, err := s.transRepo.GetByKey(ctx, nil, string(entity), nk, srcLang, tgtLang)
	if err != nil || row.State != types.TranslationStateTranslated {
		return ""
	}
	return strings.TrimSpace(row.TranslatedText)
}

func mergeLangKey(raw datatypes.JSON, lang, value string) (datatypes.JSON, error) {
	labels := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &labels); err != nil {
			return nil, err
		}
	}
	labels[lang] = value
	merged, err := json.Marshal(labels)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(merged), nil
}

func (s *writebackService) WritebackFields(ctx context.Context, in WritebackFieldsInput) (*WritebackResult, error) {
	srcLang, lang := normalizeLangs(in.SrcLang, in.Lang)
	mode := in.Mode
	if mode == "" {
		mode = WritebackSkipIfExists
	}
	res := &WritebackResult{Updated: map[string]int{"field_label": 0}}
	if strings.TrimSpace(in.Model) == "" {
		return res, nil
	}

	var targets []*types.PortalField
	if len(in.Fields) > 0 {
		for _, fieldName := range in.Fields {
			field, err := s.fieldRepo.GetByKey(ctx, nil, in.Model, fieldName)
			if err != nil {
				res.Skipped++
				continue
			}
			targets = append(targets, field)
		}
	} else {
		all, err := s.fieldRepo.List(ctx, nil, in.Model)
		if err != nil {
			return nil, err
		}
		targets = all
	}

	for _, field := range targets {
		if mode == WritebackSkipIfExists && labelLang(field.LabelI18n, lang) != "" {
			res.Skipped++
			continue
		}

		nk, err := naturalkey.BuildFieldKey(field.Model, field.FieldName)
		if err != nil {
			res.Skipped++
			continue
		}
		// The queued source was label+notes; only the label paragraph goes
		// back into label_i18n.
		translated, _ := splitLabelNotes(s.translatedText(ctx, naturalkey.EntityField, nk, srcLang, lang))
		if translated == "" {
			res.Skipped++
			continue
		}

		merged, err := mergeLangKey(field.LabelI18n, lang, translated)
		if err != nil {
			return nil, err
		}
		if err := s.fieldRepo.UpdateLabel(ctx, nil, field.Model, field.FieldName, merged); err != nil {
			return nil, err
		}
		res.Updated["field_label"]++
	}
	return res, nil
}

func (s *writebackService) WritebackViewCommons(ctx context.Context, in WritebackViewCommonsInput) (*WritebackResult, error) {
	srcLang, lang := normalizeLangs(in.SrcLang, in.Lang)
	mode := in.Mode
	if mode == "" {
		mode = WritebackSkipIfExists
	}
	targets := in.Targets
	if len(targets) == 0 {
		targets = []naturalkey.Target{naturalkey.TargetAIPurpose, naturalkey.TargetHelp}
	}

	res := &WritebackResult{Updated: map[string]int{"ai_purpose": 0, "help": 0}}

	for _, xmlid := range in.ActionXMLIDs {
		vc, err := s.vcRepo.GetByXMLID(ctx, nil, xmlid)
		if err != nil {
			res.Skipped++
			continue
		}
		for _, target := range targets {
			nk, err := naturalkey.BuildViewCommonKey(vc.ActionXMLID, target)
			if err != nil {
				res.Skipped++
				continue
			}
			switch target {
			case naturalkey.TargetAIPurpose:
				if mode == WritebackSkipIfExists && labelLang(vc.AIPurposeI18n, lang) != "" {
					res.Skipped++
					continue
				}
				translated := s.translatedText(ctx, naturalkey.EntityViewCommon, nk, srcLang, lang)
				if translated == "" {
					res.Skipped++
					continue
				}
				merged, err := mergeLangKey(vc.AIPurposeI18n, lang, translated)
				if err != nil {
					return nil, err
				}
				if err := s.vcRepo.UpdateAIPurposeI18n(ctx, nil, vc.ActionXMLID, merged); err != nil {
					return nil, err
				}
				vc.AIPurposeI18n = merged
				res.Updated["ai_purpose"]++
			case naturalkey.TargetHelp:
				if mode == WritebackSkipIfExists && strings.TrimSpace(vc.HelpEnText) != "" {
					res.Skipped++
					continue
				}
				translated := s.translatedText(ctx, naturalkey.EntityViewCommon, nk, srcLang, lang)
				if translated == "" {
					res.Skipped++
					continue
				}
				if err := s.vcRepo.UpdateHelpEn(ctx, nil, vc.ActionXMLID, translated); err != nil {
					return nil, err
				}
				vc.HelpEnText = translated
				res.Updated["help"]++
			}
		}
	}
	return res, nil
}
