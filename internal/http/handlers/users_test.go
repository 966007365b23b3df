package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/aaraconnect/whatsapp-platform/internal/store"
)

type fakeUserStore struct {
	byAuth0  map[string]*store.User
	created  *store.NewUser
	stats    *store.DashboardStats
	statsErr error
}

func (f *fakeUserStore) CreateUser(_ context.Context, nu store.NewUser) (*store.User, error) {
	f.created = &nu
	return &store.User{Auth0ID: nu.Auth0ID, Email: nu.Email, Name: nu.Name, Plan: "starter"}, nil
}

func (f *fakeUserStore) GetUserByAuth0ID(_ context.Context, auth0ID string) (*store.User, error) {
	return f.byAuth0[auth0ID], nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, id string, upd store.UserUpdate) (*store.User, error) {
	u := f.byAuth0["auth0|"+id]
	if u == nil {
		return nil, nil
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	return u, nil
}

func (f *fakeUserStore) GetDashboardStats(_ context.Context, _ string) (*store.DashboardStats, error) {
	return f.stats, f.statsErr
}

func TestUserCreate(t *testing.T) {
	t.Run("creates user", func(t *testing.T) {
		s := &fakeUserStore{}
		h := NewUserHandler(s, testLogger())
		rec := postJSON(t, h.Create, "/api/users", map[string]any{
			"auth0Id": "auth0|abc",
			"email":   "maya@example.com",
			"name":    "Maya",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if s.created == nil || s.created.Auth0ID != "auth0|abc" {
			t.Errorf("created = %+v", s.created)
		}
	})

	t.Run("requires auth0Id and email", func(t *testing.T) {
		h := NewUserHandler(&fakeUserStore{}, testLogger())
		rec := postJSON(t, h.Create, "/api/users", map[string]any{"name": "Maya"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestUserGetByAuth0ID(t *testing.T) {
	s := &fakeUserStore{byAuth0: map[string]*store.User{"auth0|abc": verifiedUser("demo")}}
	h := NewUserHandler(s, testLogger())
	router := chi.NewRouter()
	router.Get("/api/users/{auth0Id}", h.GetByAuth0ID)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/auth0|abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/auth0|missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestUserUpdate(t *testing.T) {
	s := &fakeUserStore{byAuth0: map[string]*store.User{"auth0|demo": verifiedUser("demo")}}
	h := NewUserHandler(s, testLogger())
	router := chi.NewRouter()
	router.Put("/api/user/{id}", h.Update)

	t.Run("applies changes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/user/demo", strings.NewReader(`{"name":"New Name"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if s.byAuth0["auth0|demo"].Name != "New Name" {
			t.Errorf("name = %q", s.byAuth0["auth0|demo"].Name)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/user/missing", strings.NewReader(`{"name":"x"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestDashboardStats(t *testing.T) {
	s := &fakeUserStore{stats: &store.DashboardStats{
		MessagesSent:   42,
		ResponseRate:   "0%",
		ActiveContacts: 7,
		ConversionRate: "0%",
	}}
	h := NewUserHandler(s, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	h.DashboardStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["messagesSent"] != float64(42) || body["activeContacts"] != float64(7) {
		t.Errorf("body = %v", body)
	}
}
