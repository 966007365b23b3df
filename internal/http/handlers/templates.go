package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

type templateStore interface {
	TemplatesByUser(ctx context.Context, userID string) ([]store.TemplateRecord, error)
	CreateTemplate(ctx context.Context, t store.TemplateRecord) (*store.TemplateRecord, error)
	WhatsAppTemplatesByUser(ctx context.Context, userID string) ([]store.WhatsAppTemplate, error)
	CreateWhatsAppTemplate(ctx context.Context, t store.WhatsAppTemplate) (*store.WhatsAppTemplate, error)
	UpdateWhatsAppTemplateStatus(ctx context.Context, id, status, rejectionReason, metaTemplateID string) (*store.WhatsAppTemplate, error)
}

// TemplateHandler serves both free-form drafts and templates moving through
// the provider approval workflow.
type TemplateHandler struct {
	store  templateStore
	logger *logging.Logger
}

func NewTemplateHandler(s templateStore, logger *logging.Logger) *TemplateHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &TemplateHandler{store: s, logger: logger}
}

// List handles GET /api/templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = defaultUserID
	}
	templates, err := h.store.TemplatesByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list templates", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	if templates == nil {
		templates = []store.TemplateRecord{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t store.TemplateRecord
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if t.Name == "" || t.Content == "" {
		writeError(w, http.StatusBadRequest, "name and content are required")
		return
	}
	if t.UserID == "" {
		t.UserID = defaultUserID
	}
	created, err := h.store.CreateTemplate(r.Context(), t)
	if err != nil {
		h.logger.Error("failed to create template", "user_id", t.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListWhatsApp handles GET /api/whatsapp-templates.
func (h *TemplateHandler) ListWhatsApp(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = defaultUserID
	}
	templates, err := h.store.WhatsAppTemplatesByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list whatsapp templates", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list whatsapp templates")
		return
	}
	if templates == nil {
		templates = []store.WhatsAppTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// CreateWhatsApp handles POST /api/whatsapp-templates.
func (h *TemplateHandler) CreateWhatsApp(w http.ResponseWriter, r *http.Request) {
	var t store.WhatsAppTemplate
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if t.Name == "" || t.Body == "" {
		writeError(w, http.StatusBadRequest, "name and body are required")
		return
	}
	if t.UserID == "" {
		t.UserID = defaultUserID
	}
	created, err := h.store.CreateWhatsAppTemplate(r.Context(), t)
	if err != nil {
		h.logger.Error("failed to create whatsapp template", "user_id", t.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create whatsapp template")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateWhatsAppStatus handles PUT /api/whatsapp-templates/{id}.
func (h *TemplateHandler) UpdateWhatsAppStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejectionReason"`
		MetaTemplateID  string `json:"metaTemplateId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	updated, err := h.store.UpdateWhatsAppTemplateStatus(r.Context(), id, req.Status, req.RejectionReason, req.MetaTemplateID)
	if err != nil {
		h.logger.Error("failed to update whatsapp template", "template_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update whatsapp template")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
