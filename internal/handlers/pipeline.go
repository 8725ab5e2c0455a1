package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/services"
)

// PipelineDefaults carries the env-configured stage tuning applied when a
// request leaves the matching field empty.
type PipelineDefaults struct {
	SrcLang              string
	TgtLang              string
	FieldCollection      string
	ViewCollection       string
	TranslateConcurrency int
	TranslateMaxAttempts int
	IndexMaxAttempts     int
	IndexBatchSize       int
}

// PipelineHandler exposes the translation pipeline stages as admin endpoints.
type PipelineHandler struct {
	log       *logger.Logger
	defaults  PipelineDefaults
	extract   services.ExtractService
	translate services.TranslateService
	pack      services.PackageService
	index     services.IndexService
	status    services.StatusService
}

func NewPipelineHandler(log *logger.Logger, defaults PipelineDefaults, extract services.ExtractService, translate services.TranslateService, pack services.PackageService, index services.IndexService, status services.StatusService) *PipelineHandler {
	return &PipelineHandler{
		log:       log.With("handler", "PipelineHandler"),
		defaults:  defaults,
		extract:   extract,
		translate: translate,
		pack:      pack,
		index:     index,
		status:    status,
	}
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

type extractFieldsRequest struct {
	Models  []string `json:"models"`
	Fields  []string `json:"fields"`
	Mode    string   `json:"mode"`
	SrcLang string   `json:"src_lang"`
	TgtLang string   `json:"tgt_lang"`
}

// POST /api/admin/pipeline/extract/fields
func (h *PipelineHandler) ExtractFields(c *gin.Context) {
	var req extractFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	mode, err := pipeline.ParseMode(req.Mode)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_mode", err)
		return
	}
	res, err := h.extract.ExtractFields(c.Request.Context(), services.ExtractFieldsInput{
		Models:  req.Models,
		Fields:  req.Fields,
		Mode:    mode,
		SrcLang: orString(req.SrcLang, h.defaults.SrcLang),
		TgtLang: orString(req.TgtLang, h.defaults.TgtLang),
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "extract_failed", err)
		return
	}
	RespondOK(c, res)
}

type extractViewCommonsRequest struct {
	ActionXMLIDs []string `json:"action_xmlids"`
	Targets      []string `json:"targets"`
	Mode         string   `json:"mode"`
	SrcLang      string   `json:"src_lang"`
	TgtLang      string   `json:"tgt_lang"`
}

// POST /api/admin/pipeline/extract/view-commons
func (h *PipelineHandler) ExtractViewCommons(c *gin.Context) {
	var req extractViewCommonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	mode, err := pipeline.ParseMode(req.Mode)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_mode", err)
		return
	}
	targets := make([]naturalkey.Target, 0, len(req.Targets))
	for _, raw := range req.Targets {
		target, err := naturalkey.ParseTarget(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_target", err)
			return
		}
		targets = append(targets, target)
	}
	res, err := h.extract.ExtractViewCommons(c.Request.Context(), services.ExtractViewCommonsInput{
		ActionXMLIDs: req.ActionXMLIDs,
		Targets:      targets,
		Mode:         mode,
		SrcLang:      orString(req.SrcLang, h.defaults.SrcLang),
		TgtLang:      orString(req.TgtLang, h.defaults.TgtLang),
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "extract_failed", err)
		return
	}
	RespondOK(c, res)
}

type translateRequest struct {
	Entity      string `json:"entity"`
	SrcLang     string `json:"src_lang"`
	TgtLang     string `json:"tgt_lang"`
	Limit       int    `json:"limit"`
	Concurrency int    `json:"concurrency"`
	RetryFailed bool   `json:"retry_failed"`
	MaxAttempts int    `json:"max_attempts"`
}

// POST /api/admin/pipeline/translate
func (h *PipelineHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.translate.Run(c.Request.Context(), services.TranslateInput{
		Entity:      req.Entity,
		SrcLang:     orString(req.SrcLang, h.defaults.SrcLang),
		TgtLang:     orString(req.TgtLang, h.defaults.TgtLang),
		Limit:       req.Limit,
		Concurrency: orInt(req.Concurrency, h.defaults.TranslateConcurrency),
		RetryFailed: req.RetryFailed,
		MaxAttempts: orInt(req.MaxAttempts, h.defaults.TranslateMaxAttempts),
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "translate_failed", err)
		return
	}
	RespondOK(c, res)
}

type packageRequest struct {
	Entities    []string          `json:"entities"`
	Lang        string            `json:"lang"`
	Mode        string            `json:"mode"`
	Collections map[string]string `json:"collections"`
	TextLimit   int               `json:"text_limit"`
}

// POST /api/admin/pipeline/package
func (h *PipelineHandler) Package(c *gin.Context) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	mode, err := pipeline.ParseMode(req.Mode)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_mode", err)
		return
	}
	collections := req.Collections
	if collections == nil {
		collections = map[string]string{}
	}
	if collections[string(naturalkey.EntityField)] == "" && h.defaults.FieldCollection != "" {
		collections[string(naturalkey.EntityField)] = h.defaults.FieldCollection
	}
	if collections[string(naturalkey.EntityViewCommon)] == "" && h.defaults.ViewCollection != "" {
		collections[string(naturalkey.EntityViewCommon)] = h.defaults.ViewCollection
	}
	res, err := h.pack.Run(c.Request.Context(), services.PackageInput{
		Entities:    req.Entities,
		Lang:        orString(req.Lang, h.defaults.SrcLang),
		Mode:        mode,
		Collections: collections,
		TextLimit:   req.TextLimit,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "package_failed", err)
		return
	}
	RespondOK(c, res)
}

type indexRequest struct {
	Collections []string `json:"collections"`
	Limit       int      `json:"limit"`
	BatchSize   int      `json:"batch_size"`
	MaxAttempts int      `json:"max_attempts"`
	DryRun      bool     `json:"dry_run"`
}

// POST /api/admin/pipeline/index
func (h *PipelineHandler) Index(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.index.Run(c.Request.Context(), services.IndexInput{
		Collections: req.Collections,
		Limit:       req.Limit,
		BatchSize:   orInt(req.BatchSize, h.defaults.IndexBatchSize),
		MaxAttempts: orInt(req.MaxAttempts, h.defaults.IndexMaxAttempts),
		DryRun:      req.DryRun,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "index_failed", err)
		return
	}
	RespondOK(c, res)
}

// GET /api/admin/pipeline/status
func (h *PipelineHandler) Status(c *gin.Context) {
	summary, err := h.status.Summary(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "status_failed", err)
		return
	}
	RespondOK(c, summary)
}
