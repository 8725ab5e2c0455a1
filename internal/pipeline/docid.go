package pipeline

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
)

// DocumentID derives the content-addressed id a document is upserted under in
// the vector store. It depends only on (entity, natural key, language), so
// re-packaging the same logical document always targets the same external id.
func DocumentID(entity naturalkey.Entity, nk, lang string) string {
	sum := sha256.Sum256([]byte(string(entity) + naturalkey.Separator + nk + naturalkey.Separator + lang))
	return hex.EncodeToString(sum[:])
}
