package whatsapp

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestNormalizeInbound(t *testing.T) {
	payload := InboundPayload{
		From:       "whatsapp:+15551234567",
		To:         "whatsapp:+15550001111",
		Body:       "hi",
		MessageSid: "SM1",
	}
	before := time.Now().UTC()
	msg, err := NormalizeInbound(payload)
	if err != nil {
		t.Fatalf("NormalizeInbound: %v", err)
	}
	if msg.From != "+15551234567" {
		t.Errorf("from = %q", msg.From)
	}
	if msg.To != "+15550001111" {
		t.Errorf("to = %q", msg.To)
	}
	if msg.Body != "hi" || msg.MessageID != "SM1" {
		t.Errorf("body/id = %q/%q", msg.Body, msg.MessageID)
	}
	if msg.Timestamp.Before(before) || msg.Timestamp.After(time.Now().UTC()) {
		t.Errorf("timestamp should be capture time, got %v", msg.Timestamp)
	}
	if msg.MediaURL != "" || msg.MediaType != "" {
		t.Errorf("media fields should default to empty")
	}
}

func TestNormalizeInboundMedia(t *testing.T) {
	msg, err := NormalizeInbound(InboundPayload{
		From:             "whatsapp:+15551234567",
		MessageSid:       "SM2",
		MediaURL:         "https://api.twilio.com/media/ME1",
		MediaContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("NormalizeInbound: %v", err)
	}
	if msg.MediaURL != "https://api.twilio.com/media/ME1" || msg.MediaType != "image/jpeg" {
		t.Errorf("media = %q %q", msg.MediaURL, msg.MediaType)
	}
}

func TestNormalizeInboundRejectsEmptyPayload(t *testing.T) {
	_, err := NormalizeInbound(InboundPayload{})
	var payloadErr *WebhookPayloadError
	if !errors.As(err, &payloadErr) {
		t.Fatalf("expected WebhookPayloadError, got %v", err)
	}
}

func TestNormalizeInboundRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload InboundPayload
	}{
		{"missing From", InboundPayload{MessageSid: "SM1", Body: "hi"}},
		{"missing MessageSid", InboundPayload{From: "whatsapp:+15551234567", Body: "hi"}},
		{"From is only the scheme", InboundPayload{From: "whatsapp:", MessageSid: "SM1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeInbound(tt.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPayloadFromForm(t *testing.T) {
	form := url.Values{}
	form.Set("From", "whatsapp:+15551234567")
	form.Set("To", "whatsapp:+15550001111")
	form.Set("Body", "hello")
	form.Set("MessageSid", "SM3")
	form.Set("MediaUrl0", "https://api.twilio.com/media/ME9")
	form.Set("MediaContentType0", "audio/ogg")

	p := PayloadFromForm(form)
	if p.From != "whatsapp:+15551234567" || p.MessageSid != "SM3" {
		t.Errorf("payload = %+v", p)
	}
	if p.MediaURL != "https://api.twilio.com/media/ME9" || p.MediaContentType != "audio/ogg" {
		t.Errorf("media fields = %q %q", p.MediaURL, p.MediaContentType)
	}
}
