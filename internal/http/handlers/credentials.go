package handlers

import (
	"context"
	"net/http"

	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/internal/whatsapp"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

type credentialVerifier interface {
	Verify(ctx context.Context, creds whatsapp.Credentials) bool
}

type credentialStore interface {
	SaveTwilioCredentials(ctx context.Context, id string, creds store.TwilioCredentials) (*store.User, error)
}

// CredentialHandler verifies and stores per-user provider credentials.
type CredentialHandler struct {
	verifier credentialVerifier
	store    credentialStore
	logger   *logging.Logger
}

func NewCredentialHandler(v credentialVerifier, s credentialStore, logger *logging.Logger) *CredentialHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CredentialHandler{verifier: v, store: s, logger: logger}
}

// Save handles POST /api/user/twilio-credentials. Credentials are verified
// against the provider before they are persisted.
func (h *CredentialHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"userId"`
		AccountSID  string `json:"accountSid"`
		AuthToken   string `json:"authToken"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccountSID == "" || req.AuthToken == "" || req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "accountSid, authToken and phoneNumber are required")
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	creds := whatsapp.Credentials{
		AccountSID:  req.AccountSID,
		AuthToken:   req.AuthToken,
		PhoneNumber: req.PhoneNumber,
	}
	if !h.verifier.Verify(r.Context(), creds) {
		writeError(w, http.StatusBadRequest, "Invalid Twilio credentials. Please check your Account SID, Auth Token, and phone number.")
		return
	}

	user, err := h.store.SaveTwilioCredentials(r.Context(), userID, store.TwilioCredentials{
		AccountSID:  req.AccountSID,
		AuthToken:   req.AuthToken,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.logger.Error("failed to save twilio credentials", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save credentials")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	h.logger.Info("twilio credentials verified and saved", "user_id", userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
		"message": "Twilio credentials verified and saved successfully",
	})
}
