package types

import (
	"time"

	"gorm.io/datatypes"
)

// PortalTab is a notebook page inside a form view skeleton.
type PortalTab struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ViewID    int64          `gorm:"column:view_id;not null;uniqueIndex:ux_portal_tab_view_name" json:"view_id"`
	Name      string         `gorm:"column:name;not null;uniqueIndex:ux_portal_tab_view_name" json:"name"`
	LabelI18n datatypes.JSON `gorm:"column:label_i18n;type:jsonb" json:"label_i18n"`
	Sequence  int            `gorm:"column:sequence;not null;default:0" json:"sequence"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	View *PortalView `gorm:"foreignKey:ViewID;constraint:OnDelete:CASCADE" json:"view,omitempty"`
}

func (PortalTab) TableName() string { return "portal_tab" }

// PortalSmartButton is a stat button on a form view skeleton, usually linking
// to another window action.
type PortalSmartButton struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ViewID      int64          `gorm:"column:view_id;not null;uniqueIndex:ux_portal_smart_button_view_name" json:"view_id"`
	Name        string         `gorm:"column:name;not null;uniqueIndex:ux_portal_smart_button_view_name" json:"name"`
	LabelI18n   datatypes.JSON `gorm:"column:label_i18n;type:jsonb" json:"label_i18n"`
	ActionXMLID string         `gorm:"column:action_xmlid" json:"action_xmlid"`
	Sequence    int            `gorm:"column:sequence;not null;default:0" json:"sequence"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	View *PortalView `gorm:"foreignKey:ViewID;constraint:OnDelete:CASCADE" json:"view,omitempty"`
}

func (PortalSmartButton) TableName() string { return "portal_smart_button" }

// PortalMenu mirrors the source-system menu tree. ParentID is nil for roots.
type PortalMenu struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	MenuXMLID   string         `gorm:"column:menu_xmlid;not null;uniqueIndex:ux_portal_menu_xmlid" json:"menu_xmlid"`
	ParentID    *int64         `gorm:"column:parent_id" json:"parent_id,omitempty"`
	LabelI18n   datatypes.JSON `gorm:"column:label_i18n;type:jsonb" json:"label_i18n"`
	ActionXMLID string         `gorm:"column:action_xmlid" json:"action_xmlid"`
	Sequence    int            `gorm:"column:sequence;not null;default:0" json:"sequence"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (PortalMenu) TableName() string { return "portal_menu" }
