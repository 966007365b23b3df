package handlers

import (
	"context"
	"net/http"

	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

type contactStore interface {
	CreateContact(ctx context.Context, c store.Contact) (*store.Contact, error)
	ListContacts(ctx context.Context) ([]store.Contact, error)
}

// ContactHandler serves the marketing-site contact form.
type ContactHandler struct {
	store  contactStore
	logger *logging.Logger
}

func NewContactHandler(s contactStore, logger *logging.Logger) *ContactHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContactHandler{store: s, logger: logger}
}

// Create handles POST /api/contacts. Submissions are accepted without a
// session; anonymous submissions land under the shared anonymous owner.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c store.Contact
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.Name == "" || c.Email == "" || c.Message == "" {
		writeError(w, http.StatusBadRequest, "name, email and message are required")
		return
	}
	if c.UserID == "" {
		c.UserID = "anonymous"
	}
	created, err := h.store.CreateContact(r.Context(), c)
	if err != nil {
		h.logger.Error("failed to create contact", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.ListContacts(r.Context())
	if err != nil {
		h.logger.Error("failed to list contacts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	if contacts == nil {
		contacts = []store.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}
