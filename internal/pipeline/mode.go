package pipeline

import (
	"fmt"
	"strings"

	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
)

// Mode controls how the change gate treats records that already exist.
type Mode string

const (
	// ModeUpsertIfChanged processes only new or hash-changed records.
	ModeUpsertIfChanged Mode = "upsert_if_changed"
	// ModeForceOverwrite bypasses the gate and reprocesses everything.
	ModeForceOverwrite Mode = "force_overwrite"
	// ModeSkipExisting inserts new records and never touches existing ones.
	ModeSkipExisting Mode = "skip_existing"
)

// ParseMode validates a mode string before any I/O happens. An empty string
// selects the default ModeUpsertIfChanged.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(raw)) {
	case "", ModeUpsertIfChanged:
		return ModeUpsertIfChanged, nil
	case ModeForceOverwrite:
		return ModeForceOverwrite, nil
	case ModeSkipExisting:
		return ModeSkipExisting, nil
	default:
		return "", fmt.Errorf("unknown mode %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
}
