package types

import (
	"time"

	"gorm.io/datatypes"
)

// PortalViewCommon holds the action-level metadata shared by every view of a
// window action: the action xmlid is the natural identity, AIPurpose and the
// help texts are the translatable payloads, and ViewTypes is the canonical
// list of view modes the action exposes.
type PortalViewCommon struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ActionXMLID     string         `gorm:"column:action_xmlid;not null;uniqueIndex:ux_portal_view_common_xmlid" json:"action_xmlid"`
	ActionName      string         `gorm:"column:action_name" json:"action_name"`
	ModelTech       string         `gorm:"column:model_tech" json:"model_tech"`
	ModelTable      string         `gorm:"column:model_table" json:"model_table"`
	ViewTypes       datatypes.JSON `gorm:"column:view_types;type:jsonb" json:"view_types"`
	PrimaryViewType string         `gorm:"column:primary_view_type" json:"primary_view_type"`
	AIPurpose       string         `gorm:"column:ai_purpose" json:"ai_purpose"`
	AIPurposeI18n   datatypes.JSON `gorm:"column:ai_purpose_i18n;type:jsonb" json:"ai_purpose_i18n"`
	HelpJaText      string         `gorm:"column:help_ja_text" json:"help_ja_text"`
	HelpEnText      string         `gorm:"column:help_en_text" json:"help_en_text"`
	Notes           string         `gorm:"column:notes" json:"notes"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (PortalViewCommon) TableName() string { return "portal_view_common" }
