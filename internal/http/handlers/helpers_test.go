package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/internal/whatsapp"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.New("error")
}

type fakeDispatcher struct {
	messageID  string
	sendErr    error
	bulkResult whatsapp.DispatchResult
	bulkErr    error

	lastTo       string
	lastTemplate string
	lastVars     []string
	lastCreds    whatsapp.Credentials
	lastBulk     []string
}

func (f *fakeDispatcher) SendTemplate(_ context.Context, to, templateName string, variables []string, creds whatsapp.Credentials) (string, error) {
	f.lastTo, f.lastTemplate, f.lastVars, f.lastCreds = to, templateName, variables, creds
	return f.messageID, f.sendErr
}

func (f *fakeDispatcher) SendBulk(_ context.Context, recipients []string, templateName string, variables []string, creds whatsapp.Credentials) (whatsapp.DispatchResult, error) {
	f.lastBulk, f.lastTemplate, f.lastVars, f.lastCreds = recipients, templateName, variables, creds
	return f.bulkResult, f.bulkErr
}

type fakeChecker struct {
	configured bool
	errMsg     string
}

func (f *fakeChecker) Configured() bool    { return f.configured }
func (f *fakeChecker) ConfigError() string { return f.errMsg }

type fakeUsers struct {
	users      map[string]*store.User
	getErr     error
	increments map[string]int
	incErr     error
}

func (f *fakeUsers) GetUser(_ context.Context, id string) (*store.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.users[id], nil
}

func (f *fakeUsers) IncrementMessagesUsed(_ context.Context, id string, count int) error {
	if f.increments == nil {
		f.increments = map[string]int{}
	}
	f.increments[id] += count
	return f.incErr
}

type fakeDedup struct {
	seen    map[string]bool
	markErr error
}

func (f *fakeDedup) MarkSeen(_ context.Context, id string) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[id] {
		return false, nil
	}
	f.seen[id] = true
	return true, nil
}

func verifiedUser(id string) *store.User {
	return &store.User{
		Auth0ID:           "auth0|" + id,
		Email:             id + "@example.com",
		TwilioAccountSID:  "AC0000000000000000000000000000test",
		TwilioAuthToken:   "token",
		TwilioPhoneNumber: "+15550001111",
		TwilioVerified:    true,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) error {
	t.Helper()
	return json.Unmarshal(rec.Body.Bytes(), dst)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
