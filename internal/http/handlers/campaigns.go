package handlers

import (
	"context"
	"net/http"

	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

type campaignStore interface {
	CampaignsByUser(ctx context.Context, userID string) ([]store.Campaign, error)
	CreateCampaign(ctx context.Context, c store.Campaign) (*store.Campaign, error)
}

// CampaignHandler serves bulk-campaign bookkeeping endpoints.
type CampaignHandler struct {
	store  campaignStore
	logger *logging.Logger
}

func NewCampaignHandler(s campaignStore, logger *logging.Logger) *CampaignHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CampaignHandler{store: s, logger: logger}
}

// List handles GET /api/campaigns.
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = defaultUserID
	}
	campaigns, err := h.store.CampaignsByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list campaigns", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list campaigns")
		return
	}
	if campaigns == nil {
		campaigns = []store.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// Create handles POST /api/campaigns.
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c store.Campaign
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "campaign name is required")
		return
	}
	if c.UserID == "" {
		c.UserID = defaultUserID
	}
	created, err := h.store.CreateCampaign(r.Context(), c)
	if err != nil {
		h.logger.Error("failed to create campaign", "user_id", c.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create campaign")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
