package types

import (
	"time"

	"gorm.io/datatypes"
)

// PortalModel is one source-system model (e.g. sale.order) known to the
// extraction store. Mutated only by extraction/import, never by later stages.
type PortalModel struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Model      string         `gorm:"column:model;not null;uniqueIndex:ux_portal_model_model" json:"model"`
	ModelTable string         `gorm:"column:model_table" json:"model_table"`
	LabelI18n  datatypes.JSON `gorm:"column:label_i18n;type:jsonb" json:"label_i18n"`
	Notes      string         `gorm:"column:notes" json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (PortalModel) TableName() string { return "portal_model" }
