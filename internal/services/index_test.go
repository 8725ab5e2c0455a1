package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/yungbote/devportal-backend/internal/clients/chroma"
	"github.com/yungbote/devportal-backend/internal/repos/testutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

type stubEmbedder struct {
	calls int
	err   error
}

func (s *stubEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(inputs))
	for i := range inputs {
		vectors[i] = []float32{float32(len(inputs[i])), 0.5}
	}
	return vectors, nil
}

func (s *stubEmbedder) GenerateText(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

type stubStore struct {
	ensureErr  error
	upsertErr  error
	upserted   []chroma.UpsertBatch
	lastColl   string
	collection string
}

func (s *stubStore) EnsureCollection(_ context.Context, name string, _ map[string]any) (string, error) {
	if s.ensureErr != nil {
		return "", s.ensureErr
	}
	s.lastColl = name
	if s.collection == "" {
		s.collection = "coll-" + name
	}
	return s.collection, nil
}

func (s *stubStore) Upsert(_ context.Context, collectionID string, batch chroma.UpsertBatch) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.collection = collectionID
	s.upserted = append(s.upserted, batch)
	return nil
}

func (s *stubStore) Count(context.Context, string) (int, error) {
	total := 0
	for _, b := range s.upserted {
		total += len(b.IDs)
	}
	return total, nil
}

func seedQueuedDocs(t *testing.T, f *fixture) {
	t.Helper()
	seedTranslatedField(t, f, "合計金額", "Total Amount")
	if _, err := newPackage(f, t).Run(context.Background(), PackageInput{Lang: DefaultSrcLang}); err != nil {
		t.Fatalf("package: %v", err)
	}
}

func TestIndexUpsertsQueuedDocs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedQueuedDocs(t, f)

	embedder := &stubEmbedder{}
	store := &stubStore{}
	svc := NewIndexService(f.db, testutil.Logger(t), f.docRepo, embedder, store)

	res, err := svc.Run(ctx, IndexInput{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Picked != 1 || res.Upserted != 1 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if store.lastColl != DefaultCollectionField {
		t.Fatalf("collection = %q", store.lastColl)
	}
	if len(store.upserted) != 1 || len(store.upserted[0].IDs) != 1 {
		t.Fatalf("upsert batches = %+v", store.upserted)
	}
	meta := store.upserted[0].Metadatas[0]
	if meta["model"] != "sale.order" || meta["entity"] != "field" {
		t.Fatalf("meta = %+v", meta)
	}

	doc, err := f.docRepo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", DefaultSrcLang)
	if err != nil {
		t.Fatalf("get doc: %v", err)
	}
	if doc.State != types.DocStateUpserted || doc.Attempts != 1 {
		t.Fatalf("doc state=%s attempts=%d", doc.State, doc.Attempts)
	}

	// Nothing left to pick once the row is upserted.
	res, err = svc.Run(ctx, IndexInput{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Picked != 0 {
		t.Fatalf("second picked=%d", res.Picked)
	}
}

func TestIndexDryRunCountsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedQueuedDocs(t, f)

	embedder := &stubEmbedder{}
	store := &stubStore{}
	svc := NewIndexService(f.db, testutil.Logger(t), f.docRepo, embedder, store)

	res, err := svc.Run(ctx, IndexInput{DryRun: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.DryRun || res.Picked != 1 || res.Upserted != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.Collections[DefaultCollectionField] != 1 {
		t.Fatalf("collections = %+v", res.Collections)
	}
	if embedder.calls != 0 || len(store.upserted) != 0 {
		t.Fatalf("dry run touched the store")
	}

	doc, err := f.docRepo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", DefaultSrcLang)
	if err != nil {
		t.Fatalf("get doc: %v", err)
	}
	if doc.State != types.DocStateQueued {
		t.Fatalf("state = %s", doc.State)
	}
}

func TestIndexStoreFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedQueuedDocs(t, f)

	embedder := &stubEmbedder{}
	store := &stubStore{upsertErr: errors.New("chroma unavailable")}
	svc := NewIndexService(f.db, testutil.Logger(t), f.docRepo, embedder, store)

	res, err := svc.Run(ctx, IndexInput{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Failed != 1 || res.Upserted != 0 {
		t.Fatalf("result = %+v", res)
	}

	doc, err := f.docRepo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", DefaultSrcLang)
	if err != nil {
		t.Fatalf("get doc: %v", err)
	}
	if doc.State != types.DocStateFailed || doc.Attempts != 1 {
		t.Fatalf("doc state=%s attempts=%d", doc.State, doc.Attempts)
	}

	// Failed rows stay re-selectable below the attempt cap.
	store.upsertErr = nil
	res, err = svc.Run(ctx, IndexInput{})
	if err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if res.Picked != 1 || res.Upserted != 1 {
		t.Fatalf("retry result = %+v", res)
	}
}

func TestIndexAttemptCapExhaustsRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedQueuedDocs(t, f)

	embedder := &stubEmbedder{err: errors.New("embeddings down")}
	store := &stubStore{}
	svc := NewIndexService(f.db, testutil.Logger(t), f.docRepo, embedder, store)

	for i := 0; i < 2; i++ {
		if _, err := svc.Run(ctx, IndexInput{MaxAttempts: 2}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	res, err := svc.Run(ctx, IndexInput{MaxAttempts: 2})
	if err != nil {
		t.Fatalf("final run: %v", err)
	}
	if res.Picked != 0 {
		t.Fatalf("picked=%d after attempt cap", res.Picked)
	}
}

func TestSanitizeMetaCapsLongStrings(t *testing.T) {
	longNotes := strings.Repeat("説", 20000) // 60,000 UTF-8 bytes
	raw, err := json.Marshal(map[string]any{
		"notes_ja": longNotes,
		"model":    "sale.order",
		"nested":   map[string]any{"notes": longNotes},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	meta := sanitizeMeta(raw)

	notes, ok := meta["notes_ja"].(string)
	if !ok {
		t.Fatalf("notes_ja = %T", meta["notes_ja"])
	}
	if len(notes) > metaStringMaxBytes {
		t.Fatalf("notes_ja = %d bytes, want <= %d", len(notes), metaStringMaxBytes)
	}
	if !utf8.ValidString(notes) {
		t.Fatal("notes_ja truncation broke UTF-8")
	}
	nested, ok := meta["nested"].(string)
	if !ok {
		t.Fatalf("nested = %T", meta["nested"])
	}
	if len(nested) > metaStringMaxBytes {
		t.Fatalf("nested = %d bytes, want <= %d", len(nested), metaStringMaxBytes)
	}
	if meta["model"] != "sale.order" {
		t.Fatalf("model = %v", meta["model"])
	}
}

func TestIndexCollectionFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedQueuedDocs(t, f)

	embedder := &stubEmbedder{}
	store := &stubStore{}
	svc := NewIndexService(f.db, testutil.Logger(t), f.docRepo, embedder, store)

	res, err := svc.Run(ctx, IndexInput{Collections: []string{"some_other_collection"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Picked != 0 || res.Upserted != 0 {
		t.Fatalf("result = %+v", res)
	}
}
