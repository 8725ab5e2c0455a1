package repos

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/repos/testutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

func newDoc(nk, lang, text string) *types.PortalChromaDoc {
	return &types.PortalChromaDoc{
		Entity:     "field",
		NaturalKey: nk,
		Lang:       lang,
		DocID:      pipeline.DocumentID(naturalkey.EntityField, nk, lang),
		Collection: "portal_fields",
		DocText:    text,
		Meta:       datatypes.JSON([]byte(`{"model":"sale.order"}`)),
		SourceHash: pipeline.HashText(text),
	}
}

func TestDocumentUpsertPackagedGate(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewDocumentRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	rec := newDoc("field::sale.order::amount_total", "en", "doc v1")
	outcome, err := repo.UpsertPackaged(ctx, nil, rec, pipeline.ModeUpsertIfChanged)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if outcome != OutcomeInserted {
		t.Fatalf("outcome = %s, want inserted", outcome)
	}

	outcome, err = repo.UpsertPackaged(ctx, nil, newDoc("field::sale.order::amount_total", "en", "doc v1"), pipeline.ModeUpsertIfChanged)
	if err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if outcome != OutcomeSkippedNoChange {
		t.Fatalf("outcome = %s, want skipped_no_change", outcome)
	}

	if _, err := repo.MarkUpserted(ctx, nil, rec.ID, rec.SourceHash); err != nil {
		t.Fatalf("mark upserted: %v", err)
	}

	outcome, err = repo.UpsertPackaged(ctx, nil, newDoc("field::sale.order::amount_total", "en", "doc v2"), pipeline.ModeUpsertIfChanged)
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s, want updated", outcome)
	}
	got, err := repo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", "en")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != types.DocStateQueued {
		t.Fatalf("state = %s, want queued after content change", got.State)
	}
	if got.Attempts != 0 {
		t.Fatalf("attempts = %d, want reset to 0", got.Attempts)
	}
}

func TestDocumentListQueuedIncludesRetryableFailures(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewDocumentRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	queued := newDoc("field::sale.order::a", "en", "a")
	failedYoung := newDoc("field::sale.order::b", "en", "b")
	failedCapped := newDoc("field::sale.order::c", "en", "c")
	done := newDoc("field::sale.order::d", "en", "d")
	for _, rec := range []*types.PortalChromaDoc{queued, failedYoung, failedCapped, done} {
		if _, err := repo.UpsertPackaged(ctx, nil, rec, pipeline.ModeUpsertIfChanged); err != nil {
			t.Fatalf("seed %s: %v", rec.NaturalKey, err)
		}
	}
	if _, err := repo.MarkFailed(ctx, nil, failedYoung.ID, failedYoung.SourceHash, "embed timeout"); err != nil {
		t.Fatalf("fail young: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := repo.MarkFailed(ctx, nil, failedCapped.ID, failedCapped.SourceHash, "embed timeout"); err != nil {
			t.Fatalf("fail capped: %v", err)
		}
	}
	if _, err := repo.MarkUpserted(ctx, nil, done.ID, done.SourceHash); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	picked, err := repo.ListQueued(ctx, nil, "portal_fields", 0, 5)
	if err != nil {
		t.Fatalf("list queued: %v", err)
	}
	if len(picked) != 2 {
		t.Fatalf("picked %d rows, want queued + retryable failed", len(picked))
	}
	for _, p := range picked {
		if p.NaturalKey == "field::sale.order::c" || p.NaturalKey == "field::sale.order::d" {
			t.Fatalf("row %s must not be picked", p.NaturalKey)
		}
	}
}

func TestDocumentRequeue(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewDocumentRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	rec := newDoc("field::sale.order::z", "en", "z")
	if _, err := repo.UpsertPackaged(ctx, nil, rec, pipeline.ModeUpsertIfChanged); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := repo.MarkFailed(ctx, nil, rec.ID, rec.SourceHash, "down"); err != nil {
			t.Fatalf("fail: %v", err)
		}
	}

	n, err := repo.Requeue(ctx, nil, DocumentFilter{State: types.DocStateFailed})
	if err != nil {
		t.Fatalf("requeue: %v", err)
	}
	if n != 1 {
		t.Fatalf("requeued %d rows, want 1", n)
	}
	got, err := repo.GetByKey(ctx, nil, "field", "field::sale.order::z", "en")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != types.DocStateQueued || got.Attempts != 0 || got.LastError != "" {
		t.Fatalf("row not reset: state=%s attempts=%d last_error=%q", got.State, got.Attempts, got.LastError)
	}
}

func TestDocumentListKeysetPaging(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewDocumentRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	keys := []string{"field::m::a", "field::m::b", "field::m::c"}
	for _, nk := range keys {
		if _, err := repo.UpsertPackaged(ctx, nil, newDoc(nk, "en", nk), pipeline.ModeUpsertIfChanged); err != nil {
			t.Fatalf("seed %s: %v", nk, err)
		}
	}

	page1, err := repo.List(ctx, nil, DocumentFilter{Limit: 2})
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("page1 = %d rows", len(page1))
	}
	page2, err := repo.List(ctx, nil, DocumentFilter{AfterID: page1[1].ID, Limit: 2})
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	if len(page2) != 1 || page2[0].NaturalKey != "field::m::c" {
		t.Fatalf("page2 = %+v", page2)
	}
}
