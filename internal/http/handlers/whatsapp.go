package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/aaraconnect/whatsapp-platform/internal/observability/metrics"
	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/internal/whatsapp"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

// defaultUserID stands in for the session user until full session plumbing
// lands; requests may override it.
const defaultUserID = "demo-user"

type dispatcher interface {
	SendTemplate(ctx context.Context, to, templateName string, variables []string, creds whatsapp.Credentials) (string, error)
	SendBulk(ctx context.Context, recipients []string, templateName string, variables []string, creds whatsapp.Credentials) (whatsapp.DispatchResult, error)
}

type credentialChecker interface {
	Configured() bool
	ConfigError() string
}

type userGetter interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
	IncrementMessagesUsed(ctx context.Context, id string, count int) error
}

type dedupStore interface {
	MarkSeen(ctx context.Context, messageID string) (bool, error)
}

// WhatsAppHandler exposes the messaging dispatch engine over HTTP.
type WhatsAppHandler struct {
	dispatcher dispatcher
	checker    credentialChecker
	catalog    *whatsapp.Catalog
	renderer   *whatsapp.Renderer
	users      userGetter
	dedup      dedupStore
	metrics    *metrics.MessagingMetrics
	logger     *logging.Logger
}

// NewWhatsAppHandler wires the handler. dedup may be nil when redis is not
// configured; duplicate webhooks are then passed through.
func NewWhatsAppHandler(d dispatcher, checker credentialChecker, catalog *whatsapp.Catalog, users userGetter, dedup dedupStore, m *metrics.MessagingMetrics, logger *logging.Logger) *WhatsAppHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WhatsAppHandler{
		dispatcher: d,
		checker:    checker,
		catalog:    catalog,
		renderer:   whatsapp.NewRenderer(catalog),
		users:      users,
		dedup:      dedup,
		metrics:    m,
		logger:     logger,
	}
}

// HealthCheck handles GET /health.
func (h *WhatsAppHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Templates handles GET /api/whatsapp/templates.
func (h *WhatsAppHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.All())
}

// Status handles GET /api/whatsapp/status.
func (h *WhatsAppHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"configured": h.checker.Configured()}
	if msg := h.checker.ConfigError(); msg != "" {
		resp["error"] = msg
	}
	writeJSON(w, http.StatusOK, resp)
}

// PreviewTemplate handles POST /api/whatsapp/preview-template.
func (h *WhatsAppHandler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateName string   `json:"templateName"`
		Variables    []string `json:"variables"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TemplateName == "" {
		writeError(w, http.StatusBadRequest, "Template name is required")
		return
	}
	preview, err := h.renderer.Preview(req.TemplateName, req.Variables)
	if err != nil {
		var notFound *whatsapp.TemplateNotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"templateName": req.TemplateName,
		"preview":      preview,
	})
}

func (h *WhatsAppHandler) loadCredentials(ctx context.Context, w http.ResponseWriter, userID string) (whatsapp.Credentials, bool) {
	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return whatsapp.Credentials{}, false
	}
	if user == nil || user.TwilioAccountSID == "" || user.TwilioAuthToken == "" || user.TwilioPhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "User Twilio credentials not configured. Please set up your Twilio account first.")
		return whatsapp.Credentials{}, false
	}
	if !user.TwilioVerified {
		writeError(w, http.StatusBadRequest, "Twilio credentials not verified. Please verify your credentials first.")
		return whatsapp.Credentials{}, false
	}
	return whatsapp.Credentials{
		AccountSID:  user.TwilioAccountSID,
		AuthToken:   user.TwilioAuthToken,
		PhoneNumber: user.TwilioPhoneNumber,
	}, true
}

// Send handles POST /api/whatsapp/send.
func (h *WhatsAppHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To           string   `json:"to"`
		TemplateName string   `json:"templateName"`
		Variables    []string `json:"variables"`
		UserID       string   `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" || req.TemplateName == "" {
		writeError(w, http.StatusBadRequest, "Phone number and template name are required")
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	creds, ok := h.loadCredentials(r.Context(), w, userID)
	if !ok {
		return
	}

	messageID, err := h.dispatcher.SendTemplate(r.Context(), req.To, req.TemplateName, req.Variables, creds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.users.IncrementMessagesUsed(r.Context(), userID, 1); err != nil {
		h.logger.Warn("failed to bump usage counter", "user_id", userID, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"messageId": messageID,
		"to":        req.To,
	})
}

// BulkSend handles POST /api/whatsapp/bulk-send.
func (h *WhatsAppHandler) BulkSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumbers []string `json:"phoneNumbers"`
		TemplateName string   `json:"templateName"`
		Variables    []string `json:"variables"`
		UserID       string   `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumbers == nil || req.TemplateName == "" {
		writeError(w, http.StatusBadRequest, "Phone numbers array and template name are required")
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}
	creds, ok := h.loadCredentials(r.Context(), w, userID)
	if !ok {
		return
	}

	result, err := h.dispatcher.SendBulk(r.Context(), req.PhoneNumbers, req.TemplateName, req.Variables, creds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if n := len(result.Succeeded); n > 0 {
		if err := h.users.IncrementMessagesUsed(r.Context(), userID, n); err != nil {
			h.logger.Warn("failed to bump usage counter", "user_id", userID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalSent":   len(result.Succeeded),
		"totalFailed": len(result.Failed),
		"success":     result.Succeeded,
		"failed":      result.Failed,
	})
}

// Webhook handles POST /api/whatsapp/webhook.
func (h *WhatsAppHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.metrics.ObserveInbound("invalid")
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "failed to parse webhook form"})
		return
	}
	payload := whatsapp.PayloadFromForm(r.Form)
	inbound, err := whatsapp.NormalizeInbound(payload)
	if err != nil {
		h.logger.Error("webhook rejected", "error", err)
		h.metrics.ObserveInbound("invalid")
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	if h.dedup != nil {
		fresh, err := h.dedup.MarkSeen(r.Context(), inbound.MessageID)
		if err != nil {
			// Dedup is advisory; a redis outage must not drop messages.
			h.logger.Warn("webhook dedup check failed", "message_id", inbound.MessageID, "error", err)
		} else if !fresh {
			h.logger.Info("duplicate webhook ignored", "message_id", inbound.MessageID)
			h.metrics.ObserveInbound("duplicate")
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Duplicate webhook ignored"})
			return
		}
	}

	h.logger.Info("received whatsapp message",
		"from", inbound.From,
		"message_id", inbound.MessageID,
		"timestamp", inbound.Timestamp,
		"has_media", inbound.MediaURL != "",
	)
	h.metrics.ObserveInbound("ok")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Webhook processed successfully"})
}
