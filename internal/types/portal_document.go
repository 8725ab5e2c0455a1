package types

import (
	"time"

	"gorm.io/datatypes"
)

// Document lifecycle states. A packaged document is queued until the index
// reconciler pushes it to the vector store, then upserted or failed. Failed
// rows stay eligible for re-pick while below the attempt cap.
const (
	DocStateQueued   = "queued"
	DocStateUpserted = "upserted"
	DocStateFailed   = "failed"
)

// PortalChromaDoc is one assembled document bound for the vector store,
// identified by (entity, natural_key, lang). DocID is the content-addressed
// vector-store id derived from that triple; Meta holds scalar-only metadata.
type PortalChromaDoc struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Entity     string         `gorm:"column:entity;not null;uniqueIndex:ux_portal_chroma_doc_key" json:"entity"`
	NaturalKey string         `gorm:"column:natural_key;not null;uniqueIndex:ux_portal_chroma_doc_key" json:"natural_key"`
	Lang       string         `gorm:"column:lang;not null;uniqueIndex:ux_portal_chroma_doc_key" json:"lang"`
	DocID      string         `gorm:"column:doc_id;not null;index:ix_portal_chroma_doc_doc_id" json:"doc_id"`
	Collection string         `gorm:"column:collection;not null" json:"collection"`
	DocText    string         `gorm:"column:doc_text;not null" json:"doc_text"`
	Meta       datatypes.JSON `gorm:"column:meta;type:jsonb" json:"meta"`
	SourceHash string         `gorm:"column:source_hash;not null" json:"source_hash"`
	State      string         `gorm:"column:state;not null;default:queued;index:ix_portal_chroma_doc_state" json:"state"`
	Attempts   int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError  string         `gorm:"column:last_error" json:"last_error"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (PortalChromaDoc) TableName() string { return "portal_chroma_doc" }
