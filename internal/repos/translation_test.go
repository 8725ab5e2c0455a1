package repos

import (
	"context"
	"testing"

	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/repos/testutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

func newTranslation(nk string, text string) *types.PortalTranslation {
	return &types.PortalTranslation{
		Entity:     "field",
		NaturalKey: nk,
		SrcLang:    "ja",
		TgtLang:    "en",
		Model:      "sale.order",
		SourceText: text,
		SourceHash: pipeline.HashText(text),
	}
}

func TestTranslationUpsertSourceGate(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewTranslationRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	rec := newTranslation("field::sale.order::amount_total", "合計金額")
	outcome, err := repo.UpsertSource(ctx, nil, rec, pipeline.ModeUpsertIfChanged)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if outcome != OutcomeInserted {
		t.Fatalf("outcome = %s, want inserted", outcome)
	}

	// Same payload again is a no-op.
	outcome, err = repo.UpsertSource(ctx, nil, newTranslation("field::sale.order::amount_total", "合計金額"), pipeline.ModeUpsertIfChanged)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if outcome != OutcomeSkippedNoChange {
		t.Fatalf("outcome = %s, want skipped_no_change", outcome)
	}

	// Mark the row translated, then change the source: the row must reset to
	// pending with the prior result wiped.
	got, err := repo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", "ja", "en")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	applied, err := repo.MarkTranslated(ctx, nil, got.ID, got.SourceHash, "Total Amount")
	if err != nil || !applied {
		t.Fatalf("mark translated: applied=%v err=%v", applied, err)
	}

	changed := newTranslation("field::sale.order::amount_total", "合計金額（税込）")
	outcome, err = repo.UpsertSource(ctx, nil, changed, pipeline.ModeUpsertIfChanged)
	if err != nil {
		t.Fatalf("changed upsert: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s, want updated", outcome)
	}
	got, err = repo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", "ja", "en")
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if got.State != types.TranslationStatePending {
		t.Fatalf("state = %s, want pending", got.State)
	}
	if got.TranslatedText != "" {
		t.Fatalf("translated_text = %q, want empty", got.TranslatedText)
	}
	if got.Attempts != 0 {
		t.Fatalf("attempts = %d, want 0", got.Attempts)
	}
}

func TestTranslationUpsertSourceModes(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewTranslationRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	if _, err := repo.UpsertSource(ctx, nil, newTranslation("field::sale.order::state", "状態"), pipeline.ModeUpsertIfChanged); err != nil {
		t.Fatalf("seed: %v", err)
	}

	outcome, err := repo.UpsertSource(ctx, nil, newTranslation("field::sale.order::state", "ステータス"), pipeline.ModeSkipExisting)
	if err != nil {
		t.Fatalf("skip_existing upsert: %v", err)
	}
	if outcome != OutcomeSkippedExisting {
		t.Fatalf("outcome = %s, want skipped_existing", outcome)
	}

	outcome, err = repo.UpsertSource(ctx, nil, newTranslation("field::sale.order::state", "状態"), pipeline.ModeForceOverwrite)
	if err != nil {
		t.Fatalf("force upsert: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s, want updated even with identical hash", outcome)
	}
}

func TestTranslationMarkTranslatedStaleHash(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewTranslationRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	rec := newTranslation("field::sale.order::partner_id", "顧客")
	if _, err := repo.UpsertSource(ctx, nil, rec, pipeline.ModeUpsertIfChanged); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := repo.GetByKey(ctx, nil, "field", "field::sale.order::partner_id", "ja", "en")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Source changes while a worker holds the old row.
	if _, err := repo.UpsertSource(ctx, nil, newTranslation("field::sale.order::partner_id", "取引先"), pipeline.ModeUpsertIfChanged); err != nil {
		t.Fatalf("re-gate: %v", err)
	}

	applied, err := repo.MarkTranslated(ctx, nil, got.ID, got.SourceHash, "Customer")
	if err != nil {
		t.Fatalf("stale mark: %v", err)
	}
	if applied {
		t.Fatal("stale MarkTranslated must not apply")
	}
	fresh, err := repo.GetByKey(ctx, nil, "field", "field::sale.order::partner_id", "ja", "en")
	if err != nil {
		t.Fatalf("get fresh: %v", err)
	}
	if fresh.State != types.TranslationStatePending {
		t.Fatalf("state = %s, want pending after stale mark", fresh.State)
	}
}

func TestTranslationPickPendingRetryPolicy(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewTranslationRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	pending := newTranslation("field::sale.order::a", "あ")
	failedYoung := newTranslation("field::sale.order::b", "い")
	failedOld := newTranslation("field::sale.order::c", "う")
	for _, rec := range []*types.PortalTranslation{pending, failedYoung, failedOld} {
		if _, err := repo.UpsertSource(ctx, nil, rec, pipeline.ModeUpsertIfChanged); err != nil {
			t.Fatalf("seed %s: %v", rec.NaturalKey, err)
		}
	}
	if _, err := repo.MarkFailed(ctx, nil, failedYoung.ID, failedYoung.SourceHash, "boom"); err != nil {
		t.Fatalf("fail young: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := repo.MarkFailed(ctx, nil, failedOld.ID, failedOld.SourceHash, "boom"); err != nil {
			t.Fatalf("fail old: %v", err)
		}
	}

	picked, err := repo.PickPending(ctx, nil, TranslationFilter{TgtLang: "en"})
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if len(picked) != 1 || picked[0].NaturalKey != "field::sale.order::a" {
		t.Fatalf("default pick = %d rows, want only the pending row", len(picked))
	}

	picked, err = repo.PickPending(ctx, nil, TranslationFilter{TgtLang: "en", RetryFailed: true, MaxAttempts: 3})
	if err != nil {
		t.Fatalf("retry pick: %v", err)
	}
	if len(picked) != 2 {
		t.Fatalf("retry pick = %d rows, want pending + young failed", len(picked))
	}
	for _, p := range picked {
		if p.NaturalKey == "field::sale.order::c" {
			t.Fatal("row at attempt cap must not be re-picked")
		}
	}
}

func TestTranslationCountByState(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewTranslationRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	a := newTranslation("field::sale.order::x", "x1")
	b := newTranslation("field::sale.order::y", "y1")
	for _, rec := range []*types.PortalTranslation{a, b} {
		if _, err := repo.UpsertSource(ctx, nil, rec, pipeline.ModeUpsertIfChanged); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := repo.MarkTranslated(ctx, nil, a.ID, a.SourceHash, "X1"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	counts, err := repo.CountByState(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[types.TranslationStateTranslated] != 1 || counts[types.TranslationStatePending] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
