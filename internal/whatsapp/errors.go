package whatsapp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrServiceNotConfigured is returned when the default client is requested
// but service-level credentials were absent or malformed at startup.
var ErrServiceNotConfigured = errors.New("whatsapp: service credentials not configured")

// ErrNoRecipients is returned by bulk sends given an empty recipient list.
var ErrNoRecipients = errors.New("whatsapp: recipient list is required and must not be empty")

// InvalidPhoneError reports a recipient that failed normalization or the
// E.164 length window.
type InvalidPhoneError struct {
	Raw string
}

func (e *InvalidPhoneError) Error() string {
	return fmt.Sprintf("whatsapp: invalid phone number %q: use international format with country code", e.Raw)
}

// TemplateNotFoundError reports an unknown template name along with the
// names callers can actually use.
type TemplateNotFoundError struct {
	Name      string
	Available []string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("whatsapp: template %q not found, available templates: %s", e.Name, strings.Join(e.Available, ", "))
}

// ClientBuildError reports that the provider rejected a credential set
// during client construction.
type ClientBuildError struct {
	Err error
}

func (e *ClientBuildError) Error() string {
	return fmt.Sprintf("whatsapp: failed to create provider client: %v", e.Err)
}

func (e *ClientBuildError) Unwrap() error { return e.Err }

// SendError reports a provider-side failure for a specific recipient.
type SendError struct {
	Recipient string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("whatsapp: failed to send message to %s: %v", e.Recipient, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// WebhookPayloadError reports an inbound payload that cannot be normalized.
type WebhookPayloadError struct {
	Reason string
}

func (e *WebhookPayloadError) Error() string {
	return fmt.Sprintf("whatsapp: invalid webhook payload: %s", e.Reason)
}
