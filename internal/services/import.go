package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/types"
)

type ImportModel struct {
	Model      string            `json:"model"`
	ModelTable string            `json:"model_table,omitempty"`
	LabelI18n  map[string]string `json:"label_i18n,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

type ImportField struct {
	Model      string            `json:"model"`
	FieldName  string            `json:"field_name"`
	ModelTable string            `json:"model_table,omitempty"`
	TType      string            `json:"ttype,omitempty"`
	JPDatatype string            `json:"jp_datatype,omitempty"`
	LabelI18n  map[string]string `json:"label_i18n,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

type ImportViewCommon struct {
	ActionXMLID     string            `json:"action_xmlid"`
	ActionName      string            `json:"action_name,omitempty"`
	ModelTech       string            `json:"model_tech,omitempty"`
	ModelTable      string            `json:"model_table,omitempty"`
	ViewMode        string            `json:"view_mode,omitempty"`
	PrimaryViewType string            `json:"primary_view_type,omitempty"`
	AIPurpose       string            `json:"ai_purpose,omitempty"`
	AIPurposeI18n   map[string]string `json:"ai_purpose_i18n,omitempty"`
	HelpJaText      string            `json:"help_ja_text,omitempty"`
	HelpEnText      string            `json:"help_en_text,omitempty"`
}

type ImportMenu struct {
	MenuXMLID       string            `json:"menu_xmlid"`
	ParentMenuXMLID string            `json:"parent_menu_xmlid,omitempty"`
	LabelI18n       map[string]string `json:"label_i18n,omitempty"`
	ActionXMLID     string            `json:"action_xmlid,omitempty"`
	Sequence        int               `json:"sequence,omitempty"`
}

// ImportTab attaches a notebook page to an already-bootstrapped view,
// addressed by (action_xmlid, view_type).
type ImportTab struct {
	ActionXMLID string            `json:"action_xmlid"`
	ViewType    string            `json:"view_type"`
	Name        string            `json:"name"`
	LabelI18n   map[string]string `json:"label_i18n,omitempty"`
	Sequence    int               `json:"sequence,omitempty"`
}

type ImportSmartButton struct {
	ActionXMLID       string            `json:"action_xmlid"`
	ViewType          string            `json:"view_type"`
	Name              string            `json:"name"`
	LabelI18n         map[string]string `json:"label_i18n,omitempty"`
	TargetActionXMLID string            `json:"target_action_xmlid,omitempty"`
	Sequence          int               `json:"sequence,omitempty"`
}

// ImportPayload is the metadata snapshot the source system exports.
type ImportPayload struct {
	Models       []ImportModel       `json:"models"`
	Fields       []ImportField       `json:"fields"`
	ViewCommons  []ImportViewCommon  `json:"view_commons"`
	Menus        []ImportMenu        `json:"menus"`
	Tabs         []ImportTab         `json:"tabs,omitempty"`
	SmartButtons []ImportSmartButton `json:"smart_buttons,omitempty"`
}

type ImportResult struct {
	Models       int `json:"models"`
	Fields       int `json:"fields"`
	ViewCommons  int `json:"view_commons"`
	Menus        int `json:"menus"`
	Tabs         int `json:"tabs"`
	SmartButtons int `json:"smart_buttons"`
	Skipped      int `json:"skipped"`
}

// ImportService loads a metadata snapshot into the portal tables. Everything
// is an upsert on natural identity, so re-importing a snapshot is idempotent.
type ImportService interface {
	Import(ctx context.Context, payload *ImportPayload) (*ImportResult, error)
}

type importService struct {
	db        *gorm.DB
	log       *logger.Logger
	modelRepo repos.PortalModelRepo
	fieldRepo repos.PortalFieldRepo
	vcRepo    repos.PortalViewCommonRepo
	viewRepo  repos.PortalViewRepo
	menuRepo  repos.PortalMenuRepo
	tabRepo   repos.PortalTabRepo
	btnRepo   repos.PortalSmartButtonRepo
}

func NewImportService(db *gorm.DB, log *logger.Logger, modelRepo repos.PortalModelRepo, fieldRepo repos.PortalFieldRepo, vcRepo repos.PortalViewCommonRepo, viewRepo repos.PortalViewRepo, menuRepo repos.PortalMenuRepo, tabRepo repos.PortalTabRepo, btnRepo repos.PortalSmartButtonRepo) ImportService {
	serviceLog := log.With("service", "ImportService")
	return &importService{
		db:        db,
		log:       serviceLog,
		modelRepo: modelRepo,
		fieldRepo: fieldRepo,
		vcRepo:    vcRepo,
		viewRepo:  viewRepo,
		menuRepo:  menuRepo,
		tabRepo:   tabRepo,
		btnRepo:   btnRepo,
	}
}

func modelTableFor(model, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return strings.ReplaceAll(model, ".", "_")
}

func toJSONMap(labels map[string]string) (datatypes.JSON, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(labels)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *importService) Import(ctx context.Context, payload *ImportPayload) (*ImportResult, error) {
	if payload == nil {
		return nil, fmt.Errorf("import payload required: %w", pkgerrors.ErrInvalidArgument)
	}
	res := &ImportResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []*types.PortalModel
		for _, m := range payload.Models {
			model := strings.ToLower(strings.TrimSpace(m.Model))
			if model == "" {
				res.Skipped++
				continue
			}
			labels, err := toJSONMap(m.LabelI18n)
			if err != nil {
				return err
			}
			models = append(models, &types.PortalModel{
				Model:      model,
				ModelTable: modelTableFor(model, m.ModelTable),
				LabelI18n:  labels,
				Notes:      m.Notes,
			})
		}
		if _, err := s.modelRepo.Upsert(ctx, tx, models); err != nil {
			return err
		}
		res.Models = len(models)

		var fields []*types.PortalField
		for _, f := range payload.Fields {
			model := strings.ToLower(strings.TrimSpace(f.Model))
			fieldName := strings.ToLower(strings.TrimSpace(f.FieldName))
			if model == "" || fieldName == "" {
				res.Skipped++
				continue
			}
			labels, err := toJSONMap(f.LabelI18n)
			if err != nil {
				return err
			}
			fields = append(fields, &types.PortalField{
				Model:      model,
				FieldName:  fieldName,
				ModelTable: modelTableFor(model, f.ModelTable),
				TType:      strings.ToLower(strings.TrimSpace(f.TType)),
				JPDatatype: f.JPDatatype,
				LabelI18n:  labels,
				Notes:      f.Notes,
			})
		}
		if _, err := s.fieldRepo.Upsert(ctx, tx, fields); err != nil {
			return err
		}
		res.Fields = len(fields)

		var commons []*types.PortalViewCommon
		for _, vc := range payload.ViewCommons {
			xmlid := strings.ToLower(strings.TrimSpace(vc.ActionXMLID))
			if xmlid == "" {
				res.Skipped++
				continue
			}
			purposeLabels, err := toJSONMap(vc.AIPurposeI18n)
			if err != nil {
				return err
			}
			viewTypes := types.SplitViewMode(vc.ViewMode)
			var viewTypesJSON datatypes.JSON
			if len(viewTypes) > 0 {
				raw, err := json.Marshal(viewTypes)
				if err != nil {
					return err
				}
				viewTypesJSON = datatypes.JSON(raw)
			}
			modelTech := strings.ToLower(strings.TrimSpace(vc.ModelTech))
			commons = append(commons, &types.PortalViewCommon{
				ActionXMLID:     xmlid,
				ActionName:      vc.ActionName,
				ModelTech:       modelTech,
				ModelTable:      modelTableFor(modelTech, vc.ModelTable),
				ViewTypes:       viewTypesJSON,
				PrimaryViewType: types.NormalizeViewType(vc.PrimaryViewType),
				AIPurpose:       vc.AIPurpose,
				AIPurposeI18n:   purposeLabels,
				HelpJaText:      vc.HelpJaText,
				HelpEnText:      vc.HelpEnText,
			})
		}
		if _, err := s.vcRepo.Upsert(ctx, tx, commons); err != nil {
			return err
		}
		res.ViewCommons = len(commons)

		if err := s.importMenus(ctx, tx, payload.Menus, res); err != nil {
			return err
		}
		return s.importViewChildren(ctx, tx, payload, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// importMenus resolves parent links in a second pass so snapshot order does
// not matter.
func (s *importService) importMenus(ctx context.Context, tx *gorm.DB, menus []ImportMenu, res *ImportResult) error {
	var rows []*types.PortalMenu
	for _, m := range menus {
		xmlid := strings.ToLower(strings.TrimSpace(m.MenuXMLID))
		if xmlid == "" {
			res.Skipped++
			continue
		}
		labels, err := toJSONMap(m.LabelI18n)
		if err != nil {
			return err
		}
		rows = append(rows, &types.PortalMenu{
			MenuXMLID:   xmlid,
			LabelI18n:   labels,
			ActionXMLID: strings.ToLower(strings.TrimSpace(m.ActionXMLID)),
			Sequence:    m.Sequence,
		})
	}
	if _, err := s.menuRepo.Upsert(ctx, tx, rows); err != nil {
		return err
	}
	res.Menus = len(rows)

	existing, err := s.menuRepo.List(ctx, tx)
	if err != nil {
		return err
	}
	byXMLID := make(map[string]*types.PortalMenu, len(existing))
	for _, row := range existing {
		byXMLID[row.MenuXMLID] = row
	}
	for _, m := range menus {
		parent := strings.ToLower(strings.TrimSpace(m.ParentMenuXMLID))
		if parent == "" {
			continue
		}
		child, okChild := byXMLID[strings.ToLower(strings.TrimSpace(m.MenuXMLID))]
		parentRow, okParent := byXMLID[parent]
		if !okChild || !okParent {
			res.Skipped++
			continue
		}
		if err := tx.WithContext(ctx).Model(&types.PortalMenu{}).
			Where("id = ?", child.ID).
			Update("parent_id", parentRow.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// resolveView maps (action_xmlid, view_type) to a bootstrapped view row.
// Children referencing views that do not exist yet are skipped, not errors:
// the snapshot may arrive before the views are bootstrapped.
func (s *importService) resolveView(ctx context.Context, tx *gorm.DB, actionXMLID, viewType string) (*types.PortalView, error) {
	vc, err := s.vcRepo.GetByXMLID(ctx, tx, strings.ToLower(strings.TrimSpace(actionXMLID)))
	if err != nil {
		return nil, err
	}
	return s.viewRepo.GetByCommonAndType(ctx, tx, vc.ID, viewType)
}

func (s *importService) importViewChildren(ctx context.Context, tx *gorm.DB, payload *ImportPayload, res *ImportResult) error {
	var tabs []*types.PortalTab
	for _, t := range payload.Tabs {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" || strings.TrimSpace(t.ActionXMLID) == "" {
			res.Skipped++
			continue
		}
		view, err := s.resolveView(ctx, tx, t.ActionXMLID, t.ViewType)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrNotFound) {
				res.Skipped++
				continue
			}
			return err
		}
		labels, err := toJSONMap(t.LabelI18n)
		if err != nil {
			return err
		}
		tabs = append(tabs, &types.PortalTab{
			ViewID:    view.ID,
			Name:      name,
			LabelI18n: labels,
			Sequence:  t.Sequence,
		})
	}
	if _, err := s.tabRepo.Upsert(ctx, tx, tabs); err != nil {
		return err
	}
	res.Tabs = len(tabs)

	var buttons []*types.PortalSmartButton
	for _, b := range payload.SmartButtons {
		name := strings.ToLower(strings.TrimSpace(b.Name))
		if name == "" || strings.TrimSpace(b.ActionXMLID) == "" {
			res.Skipped++
			continue
		}
		view, err := s.resolveView(ctx, tx, b.ActionXMLID, b.ViewType)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrNotFound) {
				res.Skipped++
				continue
			}
			return err
		}
		labels, err := toJSONMap(b.LabelI18n)
		if err != nil {
			return err
		}
		buttons = append(buttons, &types.PortalSmartButton{
			ViewID:      view.ID,
			Name:        name,
			LabelI18n:   labels,
			ActionXMLID: strings.ToLower(strings.TrimSpace(b.TargetActionXMLID)),
			Sequence:    b.Sequence,
		})
	}
	if _, err := s.btnRepo.Upsert(ctx, tx, buttons); err != nil {
		return err
	}
	res.SmartButtons = len(buttons)
	return nil
}
