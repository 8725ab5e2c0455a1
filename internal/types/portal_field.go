package types

import (
	"time"

	"gorm.io/datatypes"
)

// PortalField is one field of a source-system model. (model, field_name) is
// the natural identity; LabelI18n carries per-language labels keyed by
// language code ("ja", "en").
type PortalField struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Model      string         `gorm:"column:model;not null;uniqueIndex:ux_portal_field_model_field" json:"model"`
	FieldName  string         `gorm:"column:field_name;not null;uniqueIndex:ux_portal_field_model_field" json:"field_name"`
	ModelTable string         `gorm:"column:model_table" json:"model_table"`
	TType      string         `gorm:"column:ttype" json:"ttype"`
	JPDatatype string         `gorm:"column:jp_datatype" json:"jp_datatype"`
	LabelI18n  datatypes.JSON `gorm:"column:label_i18n;type:jsonb" json:"label_i18n"`
	Notes      string         `gorm:"column:notes" json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (PortalField) TableName() string { return "portal_field" }
