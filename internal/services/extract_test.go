package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/repos/testutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

type fixture struct {
	db        *gorm.DB
	fieldRepo repos.PortalFieldRepo
	vcRepo    repos.PortalViewCommonRepo
	transRepo repos.TranslationRepo
	docRepo   repos.DocumentRepo
	viewRepo  repos.PortalViewRepo
	modelRepo repos.PortalModelRepo
	menuRepo  repos.PortalMenuRepo
	tabRepo   repos.PortalTabRepo
	btnRepo   repos.PortalSmartButtonRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	return &fixture{
		db:        gdb,
		fieldRepo: repos.NewPortalFieldRepo(gdb, log),
		vcRepo:    repos.NewPortalViewCommonRepo(gdb, log),
		transRepo: repos.NewTranslationRepo(gdb, log),
		docRepo:   repos.NewDocumentRepo(gdb, log),
		viewRepo:  repos.NewPortalViewRepo(gdb, log),
		modelRepo: repos.NewPortalModelRepo(gdb, log),
		menuRepo:  repos.NewPortalMenuRepo(gdb, log),
		tabRepo:   repos.NewPortalTabRepo(gdb, log),
		btnRepo:   repos.NewPortalSmartButtonRepo(gdb, log),
	}
}

func (f *fixture) seedField(t *testing.T, model, name, jaLabel string, extra map[string]string) {
	t.Helper()
	labels := map[string]string{}
	if jaLabel != "" {
		labels["ja"] = jaLabel
	}
	for k, v := range extra {
		labels[k] = v
	}
	raw, err := toJSONMap(labels)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	_, err = f.fieldRepo.Upsert(context.Background(), nil, []*types.PortalField{{
		Model:      model,
		FieldName:  name,
		ModelTable: "sale_order",
		TType:      "monetary",
		LabelI18n:  raw,
	}})
	if err != nil {
		t.Fatalf("seed field: %v", err)
	}
}

func newExtract(f *fixture, t *testing.T) ExtractService {
	return NewExtractService(f.db, testutil.Logger(t), f.fieldRepo, f.vcRepo, f.transRepo)
}

func TestExtractFieldsQueuesJapaneseLabels(t *testing.T) {
	f := newFixture(t)
	svc := newExtract(f, t)
	ctx := context.Background()

	f.seedField(t, "sale.order", "amount_total", "合計金額", nil)
	f.seedField(t, "sale.order", "name", "", nil)                                  // no ja source
	f.seedField(t, "sale.order", "state", "状態", map[string]string{"en": "Status"}) // already translated
	f.seedField(t, "res.partner", "name", "名称", nil)

	res, err := svc.ExtractFields(ctx, ExtractFieldsInput{Models: []string{"sale.order"}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Picked != 1 || res.Inserted != 1 {
		t.Fatalf("picked=%d inserted=%d, want 1/1", res.Picked, res.Inserted)
	}
	if res.SkippedNoJa != 1 || res.SkippedHasEn != 1 {
		t.Fatalf("skipped_no_ja=%d skipped_has_en=%d, want 1/1", res.SkippedNoJa, res.SkippedHasEn)
	}

	row, err := f.transRepo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", DefaultSrcLang, DefaultTgtLang)
	if err != nil {
		t.Fatalf("queued row: %v", err)
	}
	if row.State != types.TranslationStatePending || row.SourceText != "合計金額" {
		t.Fatalf("row = %+v", row)
	}
}

func TestExtractFieldsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := newExtract(f, t)
	ctx := context.Background()

	f.seedField(t, "sale.order", "amount_total", "合計金額", nil)

	if _, err := svc.ExtractFields(ctx, ExtractFieldsInput{}); err != nil {
		t.Fatalf("first extract: %v", err)
	}
	res, err := svc.ExtractFields(ctx, ExtractFieldsInput{})
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if res.Inserted != 0 || res.Updated != 0 {
		t.Fatalf("second run inserted=%d updated=%d, want no writes", res.Inserted, res.Updated)
	}

	// Change the label; the queue row must reset.
	f.seedField(t, "sale.order", "amount_total", "合計金額（税込）", nil)
	res, err = svc.ExtractFields(ctx, ExtractFieldsInput{})
	if err != nil {
		t.Fatalf("third extract: %v", err)
	}
	if res.Updated != 1 {
		t.Fatalf("updated=%d after label change, want 1", res.Updated)
	}
}

func TestExtractViewCommonsPerTarget(t *testing.T) {
	f := newFixture(t)
	svc := newExtract(f, t)
	ctx := context.Background()

	_, err := f.vcRepo.Upsert(ctx, nil, []*types.PortalViewCommon{{
		ActionXMLID: "sale.action_quotations",
		ActionName:  "見積",
		ModelTech:   "sale.order",
		ModelTable:  "sale_order",
		AIPurpose:   "見積の作成と管理",
		HelpJaText:  "<p>見積を作成します。</p>",
	}})
	if err != nil {
		t.Fatalf("seed vc: %v", err)
	}

	res, err := svc.ExtractViewCommons(ctx, ExtractViewCommonsInput{
		ActionXMLIDs: []string{"sale.action_quotations", "sale.action_missing"},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Picked != 2 || res.Inserted != 2 {
		t.Fatalf("picked=%d inserted=%d, want both targets queued", res.Picked, res.Inserted)
	}
	if res.SkippedNotFound != 1 {
		t.Fatalf("skipped_not_found=%d, want 1", res.SkippedNotFound)
	}

	help, err := f.transRepo.GetByKey(ctx, nil, "view_common", "view_common::sale.action_quotations::help", DefaultSrcLang, DefaultTgtLang)
	if err != nil {
		t.Fatalf("help row: %v", err)
	}
	if help.SourceText != "見積を作成します。" {
		t.Fatalf("help source = %q, want HTML stripped", help.SourceText)
	}
}

func TestExtractViewCommonsSkipsTranslatedHelp(t *testing.T) {
	f := newFixture(t)
	svc := newExtract(f, t)
	ctx := context.Background()

	purposeI18n, _ := toJSONMap(map[string]string{"ja": "目的", "en": "Purpose"})
	_, err := f.vcRepo.Upsert(ctx, nil, []*types.PortalViewCommon{{
		ActionXMLID:   "sale.action_orders",
		ModelTech:     "sale.order",
		AIPurposeI18n: purposeI18n,
		HelpJaText:    "使い方",
		HelpEnText:    "How to use",
	}})
	if err != nil {
		t.Fatalf("seed vc: %v", err)
	}

	res, err := svc.ExtractViewCommons(ctx, ExtractViewCommonsInput{
		ActionXMLIDs: []string{"sale.action_orders"},
		Targets:      []naturalkey.Target{naturalkey.TargetAIPurpose, naturalkey.TargetHelp},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Picked != 0 || res.SkippedHasEn != 2 {
		t.Fatalf("picked=%d skipped_has_en=%d, want everything skipped", res.Picked, res.SkippedHasEn)
	}
}

func TestExtractFieldsSkipExistingMode(t *testing.T) {
	f := newFixture(t)
	svc := newExtract(f, t)
	ctx := context.Background()

	f.seedField(t, "sale.order", "amount_total", "合計金額", nil)
	if _, err := svc.ExtractFields(ctx, ExtractFieldsInput{}); err != nil {
		t.Fatalf("seed extract: %v", err)
	}

	f.seedField(t, "sale.order", "amount_total", "別ラベル", nil)
	res, err := svc.ExtractFields(ctx, ExtractFieldsInput{Mode: pipeline.ModeSkipExisting})
	if err != nil {
		t.Fatalf("skip_existing extract: %v", err)
	}
	if res.Updated != 0 {
		t.Fatalf("updated=%d under skip_existing, want 0", res.Updated)
	}
}
