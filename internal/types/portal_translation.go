package types

import "time"

// Translation lifecycle states. The set is closed: a row is pending until a
// worker claims and finishes it, then translated or failed.
const (
	TranslationStatePending    = "pending"
	TranslationStateTranslated = "translated"
	TranslationStateFailed     = "failed"
)

// PortalTranslation is one translation work item, identified by
// (entity, natural_key, src_lang, tgt_lang). SourceHash is the sha256 of
// SourceText at enqueue time; re-enqueueing the same hash is a no-op while
// a new hash resets the row to pending.
type PortalTranslation struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Entity         string    `gorm:"column:entity;not null;uniqueIndex:ux_portal_translate_key" json:"entity"`
	NaturalKey     string    `gorm:"column:natural_key;not null;uniqueIndex:ux_portal_translate_key" json:"natural_key"`
	SrcLang        string    `gorm:"column:src_lang;not null;uniqueIndex:ux_portal_translate_key" json:"src_lang"`
	TgtLang        string    `gorm:"column:tgt_lang;not null;uniqueIndex:ux_portal_translate_key" json:"tgt_lang"`
	Model          string    `gorm:"column:model" json:"model"`
	ModelTable     string    `gorm:"column:model_table" json:"model_table"`
	SourceText     string    `gorm:"column:source_text;not null" json:"source_text"`
	SourceHash     string    `gorm:"column:source_hash;not null" json:"source_hash"`
	TranslatedText string    `gorm:"column:translated_text" json:"translated_text"`
	State          string    `gorm:"column:state;not null;default:pending;index:ix_portal_translate_state" json:"state"`
	Attempts       int       `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError      string    `gorm:"column:last_error" json:"last_error"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (PortalTranslation) TableName() string { return "portal_translate" }
