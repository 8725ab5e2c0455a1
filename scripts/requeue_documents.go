// Command requeue_documents flips failed or stale vector-store documents
// back to queued so the next index run picks them up again. Run it after
// rebuilding a Chroma collection or after fixing a batch of embed failures:
//
//	go run scripts/requeue_documents.go -collection devportal_fields -state failed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/devportal-backend/internal/db"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
)

func main() {
	var (
		entity     = flag.String("entity", "", "restrict to one entity kind (field, view_common)")
		lang       = flag.String("lang", "", "restrict to one document language")
		state      = flag.String("state", "failed", "document state to requeue (failed or upserted)")
		collection = flag.String("collection", "", "restrict to one collection")
	)
	flag.Parse()

	if *state != "failed" && *state != "upserted" {
		fmt.Fprintf(os.Stderr, "requeue_documents: unsupported state %q\n", *state)
		os.Exit(2)
	}

	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "requeue_documents: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Failed to connect", "error", err)
		os.Exit(1)
	}

	docRepo := repos.NewDocumentRepo(pg.DB(), log)
	count, err := docRepo.Requeue(context.Background(), nil, repos.DocumentFilter{
		Entity:     *entity,
		Lang:       *lang,
		State:      *state,
		Collection: *collection,
	})
	if err != nil {
		log.Error("Requeue failed", "error", err)
		os.Exit(1)
	}

	log.Info("Requeued documents", "count", count, "state", *state, "collection", *collection)
}
