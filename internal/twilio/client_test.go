package twilio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testSID = "AC00000000000000000000000000000001"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{AccountSID: testSID, AuthToken: "token", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, srv
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{AuthToken: "t"}); err == nil {
		t.Error("expected error without account SID")
	}
	if _, err := New(Config{AccountSID: testSID}); err == nil {
		t.Error("expected error without auth token")
	}
}

func TestFetchAccount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/"+testSID+".json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != testSID || pass != "token" {
			t.Error("expected basic auth with account credentials")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sid":"` + testSID + `","friendly_name":"AaraConnect","status":"active","type":"Full"}`))
	})

	account, err := client.FetchAccount(context.Background())
	if err != nil {
		t.Fatalf("FetchAccount: %v", err)
	}
	if account.SID != testSID || account.Status != "active" {
		t.Errorf("account = %+v", account)
	}
}

func TestFetchAccountUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":20003,"message":"Authenticate","more_info":"https://www.twilio.com/docs/errors/20003"}`))
	})

	_, err := client.FetchAccount(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Code != 20003 {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestListIncomingPhoneNumbers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("PhoneNumber"); got != "15550001111" {
			t.Errorf("PhoneNumber filter = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"incoming_phone_numbers":[{"sid":"PN1","phone_number":"+15550001111","friendly_name":"main"}]}`))
	})

	numbers, err := client.ListIncomingPhoneNumbers(context.Background(), "15550001111")
	if err != nil {
		t.Fatalf("ListIncomingPhoneNumbers: %v", err)
	}
	if len(numbers) != 1 || numbers[0].PhoneNumber != "+15550001111" {
		t.Errorf("numbers = %+v", numbers)
	}
}

func TestSendMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("To") != "whatsapp:+15551234567" {
			t.Errorf("To = %q", r.PostForm.Get("To"))
		}
		if r.PostForm.Get("From") != "whatsapp:+15550001111" {
			t.Errorf("From = %q", r.PostForm.Get("From"))
		}
		if r.PostForm.Get("MediaUrl") != "https://x/img.png" {
			t.Errorf("MediaUrl = %q", r.PostForm.Get("MediaUrl"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123","status":"queued","from":"whatsapp:+15550001111","to":"whatsapp:+15551234567"}`))
	})

	msg, err := client.SendMessage(context.Background(), SendMessageRequest{
		From:     "whatsapp:+15550001111",
		To:       "whatsapp:+15551234567",
		Body:     "hello",
		MediaURL: "https://x/img.png",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.SID != "SM123" || msg.Status != "queued" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
	})

	_, err := client.SendMessage(context.Background(), SendMessageRequest{From: "whatsapp:+1", To: "whatsapp:+2", Body: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != 21211 {
		t.Errorf("code = %d", apiErr.Code)
	}
}

func TestProviderAdapter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost:
			w.Write([]byte(`{"sid":"SM9","status":"queued"}`))
		case r.URL.Path == "/2010-04-01/Accounts/"+testSID+".json":
			w.Write([]byte(`{"sid":"` + testSID + `","status":"active"}`))
		default:
			w.Write([]byte(`{"incoming_phone_numbers":[]}`))
		}
	})
	p := NewProvider(client)

	if err := p.FetchAccount(context.Background()); err != nil {
		t.Fatalf("FetchAccount: %v", err)
	}
	found, err := p.HasPhoneNumber(context.Background(), "15550001111")
	if err != nil {
		t.Fatalf("HasPhoneNumber: %v", err)
	}
	if found {
		t.Error("empty listing should report no match")
	}
}
