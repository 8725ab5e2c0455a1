package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
)

// Classification is the change gate's verdict for one entity.
type Classification string

const (
	ClassNew       Classification = "new"
	ClassChanged   Classification = "changed"
	ClassUnchanged Classification = "unchanged"
)

// HashText computes the content hash used for change detection: hex sha256
// over the UTF-8 bytes of the already-normalized text bundle. Callers must
// normalize before hashing so equal content always yields equal hashes.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Classify compares the stored hash with the current one. An empty stored
// hash means no prior record exists.
func Classify(storedHash, currentHash string) Classification {
	switch {
	case storedHash == "":
		return ClassNew
	case storedHash != currentHash:
		return ClassChanged
	default:
		return ClassUnchanged
	}
}

// ShouldProcess applies the mode policy to a gate verdict.
func ShouldProcess(mode Mode, class Classification) bool {
	switch mode {
	case ModeForceOverwrite:
		return true
	case ModeSkipExisting:
		return class == ClassNew
	default:
		return class != ClassUnchanged
	}
}
