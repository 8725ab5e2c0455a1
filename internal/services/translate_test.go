package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/devportal-backend/internal/repos/testutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

type failingTranslator struct{ err error }

func (f failingTranslator) Translate(context.Context, string, string, string) (string, error) {
	return "", f.err
}

func TestTranslateRunWithDummyProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedField(t, "sale.order", "amount_total", "合計金額", nil)
	f.seedField(t, "sale.order", "partner_id", "顧客", nil)
	extract := newExtract(f, t)
	if _, err := extract.ExtractFields(ctx, ExtractFieldsInput{}); err != nil {
		t.Fatalf("extract: %v", err)
	}

	svc := NewTranslateService(f.db, testutil.Logger(t), f.transRepo, DummyTranslator{})
	res, err := svc.Run(ctx, TranslateInput{Concurrency: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Picked != 2 || res.Translated != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}

	row, err := f.transRepo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", DefaultSrcLang, DefaultTgtLang)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.State != types.TranslationStateTranslated {
		t.Fatalf("state = %s", row.State)
	}
	if !strings.HasPrefix(row.TranslatedText, "(EN)") {
		t.Fatalf("translated_text = %q, want dummy prefix", row.TranslatedText)
	}
	if row.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", row.Attempts)
	}

	// Nothing pending left.
	res, err = svc.Run(ctx, TranslateInput{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Picked != 0 {
		t.Fatalf("second run picked %d rows", res.Picked)
	}
}

func TestTranslateRunRecordsFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedField(t, "sale.order", "amount_total", "合計金額", nil)
	if _, err := newExtract(f, t).ExtractFields(ctx, ExtractFieldsInput{}); err != nil {
		t.Fatalf("extract: %v", err)
	}

	boom := errors.New("provider down")
	svc := NewTranslateService(f.db, testutil.Logger(t), f.transRepo, failingTranslator{err: boom})
	res, err := svc.Run(ctx, TranslateInput{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Failed != 1 || res.Translated != 0 {
		t.Fatalf("result = %+v", res)
	}

	row, err := f.transRepo.GetByKey(ctx, nil, "field", "field::sale.order::amount_total", DefaultSrcLang, DefaultTgtLang)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.State != types.TranslationStateFailed || row.LastError == "" {
		t.Fatalf("row = %+v", row)
	}

	// Failed rows are not retried unless asked.
	res, err = svc.Run(ctx, TranslateInput{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Picked != 0 {
		t.Fatalf("picked %d without retry_failed", res.Picked)
	}

	// With retry enabled a healthy provider recovers the row.
	healthy := NewTranslateService(f.db, testutil.Logger(t), f.transRepo, DummyTranslator{})
	res, err = healthy.Run(ctx, TranslateInput{RetryFailed: true})
	if err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if res.Translated != 1 {
		t.Fatalf("retry result = %+v", res)
	}
}
