package whatsapp

import (
	"net/url"
	"time"
)

// InboundPayload is the raw webhook form the provider posts. Only From and
// MessageSid are required; everything else defaults to empty.
type InboundPayload struct {
	From             string
	To               string
	Body             string
	MessageSid       string
	MediaURL         string
	MediaContentType string
}

// PayloadFromForm extracts the consumed webhook fields from form values.
func PayloadFromForm(values url.Values) InboundPayload {
	return InboundPayload{
		From:             values.Get("From"),
		To:               values.Get("To"),
		Body:             values.Get("Body"),
		MessageSid:       values.Get("MessageSid"),
		MediaURL:         values.Get("MediaUrl0"),
		MediaContentType: values.Get("MediaContentType0"),
	}
}

// InboundMessage is the canonical shape handed to callers. MessageID is the
// provider-assigned id downstream consumers use as an idempotency key.
type InboundMessage struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Body      string    `json:"body"`
	MessageID string    `json:"messageId"`
	Timestamp time.Time `json:"timestamp"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	MediaType string    `json:"mediaType,omitempty"`
}

// NormalizeInbound converts a raw payload into an InboundMessage. The
// timestamp is capture time, not anything the provider claims. Pure apart
// from reading the clock.
func NormalizeInbound(payload InboundPayload) (InboundMessage, error) {
	if payload == (InboundPayload{}) {
		return InboundMessage{}, &WebhookPayloadError{Reason: "payload is empty"}
	}
	from := StripScheme(payload.From)
	if from == "" || payload.MessageSid == "" {
		return InboundMessage{}, &WebhookPayloadError{Reason: "missing required fields From and MessageSid"}
	}
	return InboundMessage{
		From:      from,
		To:        StripScheme(payload.To),
		Body:      payload.Body,
		MessageID: payload.MessageSid,
		Timestamp: time.Now().UTC(),
		MediaURL:  payload.MediaURL,
		MediaType: payload.MediaContentType,
	}, nil
}
