package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/services"
)

// PortalHandler covers the metadata side: snapshot import, view bootstrap,
// primary-view selection, translation writeback and document inspection.
type PortalHandler struct {
	log       *logger.Logger
	importer  services.ImportService
	bootstrap services.BootstrapViewService
	writeback services.WritebackService
	status    services.StatusService
}

func NewPortalHandler(log *logger.Logger, importer services.ImportService, bootstrap services.BootstrapViewService, writeback services.WritebackService, status services.StatusService) *PortalHandler {
	return &PortalHandler{
		log:       log.With("handler", "PortalHandler"),
		importer:  importer,
		bootstrap: bootstrap,
		writeback: writeback,
		status:    status,
	}
}

// POST /api/admin/portal/import
func (h *PortalHandler) Import(c *gin.Context) {
	var payload services.ImportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.importer.Import(c.Request.Context(), &payload)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_payload", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "import_failed", err)
		return
	}
	RespondOK(c, res)
}

type bootstrapViewsRequest struct {
	ActionXMLIDs         []string `json:"action_xmlids"`
	SetPrimaryFromCommon bool     `json:"set_primary_from_common"`
}

// POST /api/admin/portal/views/bootstrap
func (h *PortalHandler) BootstrapViews(c *gin.Context) {
	var req bootstrapViewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.bootstrap.BootstrapByActionXMLIDs(c.Request.Context(), services.BootstrapViewsInput{
		ActionXMLIDs:         req.ActionXMLIDs,
		SetPrimaryFromCommon: req.SetPrimaryFromCommon,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "bootstrap_failed", err)
		return
	}
	RespondOK(c, res)
}

type setPrimaryRequest struct {
	ViewType string `json:"view_type"`
}

// PUT /api/admin/portal/actions/:xmlid/primary-view
func (h *PortalHandler) SetPrimaryView(c *gin.Context) {
	var req setPrimaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := h.bootstrap.SetPrimary(c.Request.Context(), c.Param("xmlid"), req.ViewType)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrNotFound):
			RespondError(c, http.StatusNotFound, "not_found", err)
		case errors.Is(err, pkgerrors.ErrInvalidArgument):
			RespondError(c, http.StatusBadRequest, "invalid_view_type", err)
		default:
			RespondError(c, http.StatusInternalServerError, "set_primary_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"action_xmlid": c.Param("xmlid"), "primary_view_type": req.ViewType})
}

type writebackFieldsRequest struct {
	Model   string   `json:"model"`
	Fields  []string `json:"fields"`
	Lang    string   `json:"lang"`
	Mode    string   `json:"mode"`
	SrcLang string   `json:"src_lang"`
}

// POST /api/admin/portal/writeback/fields
func (h *PortalHandler) WritebackFields(c *gin.Context) {
	var req writebackFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.writeback.WritebackFields(c.Request.Context(), services.WritebackFieldsInput{
		Model:   req.Model,
		Fields:  req.Fields,
		Lang:    req.Lang,
		Mode:    services.WritebackMode(req.Mode),
		SrcLang: req.SrcLang,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "writeback_failed", err)
		return
	}
	RespondOK(c, res)
}

type writebackViewCommonsRequest struct {
	ActionXMLIDs []string `json:"action_xmlids"`
	Targets      []string `json:"targets"`
	Lang         string   `json:"lang"`
	Mode         string   `json:"mode"`
	SrcLang      string   `json:"src_lang"`
}

// POST /api/admin/portal/writeback/view-commons
func (h *PortalHandler) WritebackViewCommons(c *gin.Context) {
	var req writebackViewCommonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
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
	res, err := h.writeback.WritebackViewCommons(c.Request.Context(), services.WritebackViewCommonsInput{
		ActionXMLIDs: req.ActionXMLIDs,
		Targets:      targets,
		Lang:         req.Lang,
		Mode:         services.WritebackMode(req.Mode),
		SrcLang:      req.SrcLang,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "writeback_failed", err)
		return
	}
	RespondOK(c, res)
}

// GET /api/admin/portal/documents
func (h *PortalHandler) ListDocuments(c *gin.Context) {
	var query struct {
		Entity     string `form:"entity"`
		Lang       string `form:"lang"`
		State      string `form:"state"`
		Collection string `form:"collection"`
		AfterID    int64  `form:"after_id"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	docs, err := h.status.ListDocuments(c.Request.Context(), repos.DocumentFilter{
		Entity:     query.Entity,
		Lang:       query.Lang,
		State:      query.State,
		Collection: query.Collection,
		AfterID:    query.AfterID,
		Limit:      query.Limit,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	nextAfter := int64(0)
	if len(docs) > 0 {
		nextAfter = docs[len(docs)-1].ID
	}
	RespondOK(c, gin.H{"documents": docs, "next_after_id": nextAfter})
}
