package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

type userStore interface {
	CreateUser(ctx context.Context, nu store.NewUser) (*store.User, error)
	GetUserByAuth0ID(ctx context.Context, auth0ID string) (*store.User, error)
	UpdateUser(ctx context.Context, id string, upd store.UserUpdate) (*store.User, error)
	GetDashboardStats(ctx context.Context, userID string) (*store.DashboardStats, error)
}

// UserHandler serves account endpoints.
type UserHandler struct {
	store  userStore
	logger *logging.Logger
}

func NewUserHandler(s userStore, logger *logging.Logger) *UserHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &UserHandler{store: s, logger: logger}
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var nu store.NewUser
	if err := decodeJSON(r, &nu); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if nu.Auth0ID == "" || nu.Email == "" {
		writeError(w, http.StatusBadRequest, "auth0Id and email are required")
		return
	}
	user, err := h.store.CreateUser(r.Context(), nu)
	if err != nil {
		h.logger.Error("failed to create user", "auth0_id", nu.Auth0ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetByAuth0ID handles GET /api/users/{auth0Id}.
func (h *UserHandler) GetByAuth0ID(w http.ResponseWriter, r *http.Request) {
	auth0ID := chi.URLParam(r, "auth0Id")
	user, err := h.store.GetUserByAuth0ID(r.Context(), auth0ID)
	if err != nil {
		h.logger.Error("failed to load user", "auth0_id", auth0ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/user/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var upd store.UserUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.store.UpdateUser(r.Context(), id, upd)
	if err != nil {
		h.logger.Error("failed to update user", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DashboardStats handles GET /api/dashboard/stats.
func (h *UserHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = defaultUserID
	}
	stats, err := h.store.GetDashboardStats(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load dashboard stats", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
