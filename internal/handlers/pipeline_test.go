package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/services"
)

type captureTranslate struct {
	in services.TranslateInput
}

func (s *captureTranslate) Run(_ context.Context, in services.TranslateInput) (*services.TranslateResult, error) {
	s.in = in
	return &services.TranslateResult{}, nil
}

type captureIndex struct {
	in services.IndexInput
}

func (s *captureIndex) Run(_ context.Context, in services.IndexInput) (*services.IndexResult, error) {
	s.in = in
	return &services.IndexResult{Collections: map[string]int{}}, nil
}

type capturePackage struct {
	in services.PackageInput
}

func (s *capturePackage) Run(_ context.Context, in services.PackageInput) (*services.PackageResult, error) {
	s.in = in
	return &services.PackageResult{}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func postJSON(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestTranslateAppliesConfiguredDefaults(t *testing.T) {
	translate := &captureTranslate{}
	h := NewPipelineHandler(testLogger(t), PipelineDefaults{
		SrcLang:              "ja",
		TgtLang:              "en",
		TranslateConcurrency: 8,
		TranslateMaxAttempts: 7,
	}, nil, translate, nil, nil, nil)

	w := postJSON(t, h.Translate, `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	in := translate.in
	if in.SrcLang != "ja" || in.TgtLang != "en" {
		t.Fatalf("langs = %q→%q", in.SrcLang, in.TgtLang)
	}
	if in.Concurrency != 8 || in.MaxAttempts != 7 {
		t.Fatalf("concurrency=%d max_attempts=%d", in.Concurrency, in.MaxAttempts)
	}
}

func TestTranslateRequestOverridesDefaults(t *testing.T) {
	translate := &captureTranslate{}
	h := NewPipelineHandler(testLogger(t), PipelineDefaults{
		SrcLang:              "ja",
		TgtLang:              "en",
		TranslateConcurrency: 8,
		TranslateMaxAttempts: 7,
	}, nil, translate, nil, nil, nil)

	w := postJSON(t, h.Translate, `{"tgt_lang":"fr","concurrency":2,"max_attempts":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	in := translate.in
	if in.SrcLang != "ja" || in.TgtLang != "fr" {
		t.Fatalf("langs = %q→%q", in.SrcLang, in.TgtLang)
	}
	if in.Concurrency != 2 || in.MaxAttempts != 1 {
		t.Fatalf("concurrency=%d max_attempts=%d", in.Concurrency, in.MaxAttempts)
	}
}

func TestPackageAppliesConfiguredCollections(t *testing.T) {
	pack := &capturePackage{}
	h := NewPipelineHandler(testLogger(t), PipelineDefaults{
		SrcLang:         "ja",
		FieldCollection: "fields_v2",
		ViewCollection:  "views_v2",
	}, nil, nil, pack, nil, nil)

	w := postJSON(t, h.Package, `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	in := pack.in
	if in.Lang != "ja" {
		t.Fatalf("lang = %q", in.Lang)
	}
	if in.Collections["field"] != "fields_v2" || in.Collections["view_common"] != "views_v2" {
		t.Fatalf("collections = %+v", in.Collections)
	}
}

func TestIndexAppliesConfiguredTuning(t *testing.T) {
	index := &captureIndex{}
	h := NewPipelineHandler(testLogger(t), PipelineDefaults{
		IndexMaxAttempts: 9,
		IndexBatchSize:   16,
	}, nil, nil, nil, index, nil)

	w := postJSON(t, h.Index, `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if index.in.MaxAttempts != 9 || index.in.BatchSize != 16 {
		t.Fatalf("input = %+v", index.in)
	}
}
