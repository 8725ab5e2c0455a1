package types

import "time"

// PortalView is one concrete view of a window action. At most one view per
// common may carry IsPrimary=true; the view repo enforces that inside the
// same transaction that sets the flag.
type PortalView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CommonID  int64     `gorm:"column:common_id;not null;uniqueIndex:ux_portal_view_common_type" json:"common_id"`
	ViewType  string    `gorm:"column:view_type;not null;uniqueIndex:ux_portal_view_common_type" json:"view_type"`
	Model     string    `gorm:"column:model" json:"model"`
	Name      string    `gorm:"column:name" json:"name"`
	Enabled   bool      `gorm:"column:enabled;not null;default:true" json:"enabled"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	Notes     string    `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Common *PortalViewCommon `gorm:"foreignKey:CommonID;constraint:OnDelete:CASCADE" json:"common,omitempty"`
}

func (PortalView) TableName() string { return "portal_view" }
