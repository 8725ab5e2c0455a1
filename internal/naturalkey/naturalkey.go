package naturalkey

import (
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
)

// Entity is the closed set of entity kinds the pipeline handles. Extending it
// is a schema migration, not a runtime parameter.
type Entity string

const (
	EntityField      Entity = "field"
	EntityViewCommon Entity = "view_common"
)

// Target selects which view_common text a key refers to.
type Target string

const (
	TargetAIPurpose Target = "ai_purpose"
	TargetHelp      Target = "help"
)

// Separator between natural-key parts. Parts must never contain it.
const Separator = "::"

var (
	modelRe = regexp.MustCompile(`^[a-z0-9._]+$`)
	fieldRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	xmlidRe = regexp.MustCompile(`^[a-z0-9._]+$`)
)

func Entities() []Entity {
	return []Entity{EntityField, EntityViewCommon}
}

func ParseEntity(raw string) (Entity, error) {
	switch Entity(strings.TrimSpace(raw)) {
	case EntityField:
		return EntityField, nil
	case EntityViewCommon:
		return EntityViewCommon, nil
	default:
		return "", fmt.Errorf("unknown entity %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
}

func ParseTarget(raw string) (Target, error) {
	switch Target(strings.TrimSpace(raw)) {
	case TargetAIPurpose:
		return TargetAIPurpose, nil
	case TargetHelp:
		return TargetHelp, nil
	default:
		return "", fmt.Errorf("unknown view_common target %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
}

// BuildFieldKey derives the stable natural key for one model field:
// "field::<model>::<field_name>". Pure and deterministic; the same inputs
// always yield the same key.
func BuildFieldKey(model, fieldName string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(model))
	f := strings.ToLower(strings.TrimSpace(fieldName))
	if m == "" || !modelRe.MatchString(m) || strings.Contains(m, Separator) {
		return "", fmt.Errorf("invalid model %q: %w", model, pkgerrors.ErrInvalidArgument)
	}
	if f == "" || !fieldRe.MatchString(f) {
		return "", fmt.Errorf("invalid field name %q: %w", fieldName, pkgerrors.ErrInvalidArgument)
	}
	return string(EntityField) + Separator + m + Separator + f, nil
}

// BuildViewCommonKey derives the stable natural key for one view_common text
// slot: "view_common::<action_xmlid>::<target>".
func BuildViewCommonKey(actionXMLID string, target Target) (string, error) {
	x := strings.ToLower(strings.TrimSpace(actionXMLID))
	if x == "" || !xmlidRe.MatchString(x) || strings.Contains(x, Separator) {
		return "", fmt.Errorf("invalid action_xmlid %q: %w", actionXMLID, pkgerrors.ErrInvalidArgument)
	}
	if _, err := ParseTarget(string(target)); err != nil {
		return "", err
	}
	return string(EntityViewCommon) + Separator + x + Separator + string(target), nil
}

// SplitFieldKey is the inverse of BuildFieldKey.
func SplitFieldKey(nk string) (model, fieldName string, err error) {
	parts := strings.SplitN(nk, Separator, 3)
	if len(parts) != 3 || Entity(parts[0]) != EntityField || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("malformed field natural key %q: %w", nk, pkgerrors.ErrInvalidArgument)
	}
	return parts[1], parts[2], nil
}

// SplitViewCommonKey is the inverse of BuildViewCommonKey.
func SplitViewCommonKey(nk string) (actionXMLID string, target Target, err error) {
	parts := strings.SplitN(nk, Separator, 3)
	if len(parts) != 3 || Entity(parts[0]) != EntityViewCommon || parts[1] == "" {
		return "", "", fmt.Errorf("malformed view_common natural key %q: %w", nk, pkgerrors.ErrInvalidArgument)
	}
	t, err := ParseTarget(parts[2])
	if err != nil {
		return "", "", err
	}
	return parts[1], t, nil
}
