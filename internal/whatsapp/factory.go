package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

// Credentials identify one messaging sender. They are supplied per call
// and never cached beyond it.
type Credentials struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

func (c Credentials) complete() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.PhoneNumber != ""
}

// ProviderMessage is the wire-level submission handed to a provider client.
// From and To already carry the whatsapp: scheme token.
type ProviderMessage struct {
	From     string
	To       string
	Body     string
	MediaURL string
}

// ProviderClient is the capability the dispatch engine requires from the
// messaging provider.
type ProviderClient interface {
	FetchAccount(ctx context.Context) error
	HasPhoneNumber(ctx context.Context, phoneNumber string) (bool, error)
	Send(ctx context.Context, msg ProviderMessage) (string, error)
}

// ClientBuilder constructs a provider client bound to one credential pair.
type ClientBuilder func(accountSID, authToken string) (ProviderClient, error)

// ClientFactory builds credential-scoped provider clients. It also holds
// the optional default service-level client; when service credentials were
// absent or malformed at startup the factory carries that as a standing
// error instead of a client.
type ClientFactory struct {
	build         ClientBuilder
	defaultClient ProviderClient
	configErr     error
	logger        *logging.Logger
}

// NewClientFactory wires a factory to a provider builder. serviceCreds may
// be incomplete; the factory then reports not-configured until restarted
// with credentials.
func NewClientFactory(build ClientBuilder, serviceCreds Credentials, logger *logging.Logger) *ClientFactory {
	if build == nil {
		panic("whatsapp: client builder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	f := &ClientFactory{build: build, logger: logger}
	if !serviceCreds.complete() {
		f.configErr = errors.New("missing Twilio credentials: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, and TWILIO_PHONE_NUMBER are required")
		return f
	}
	client, err := build(serviceCreds.AccountSID, serviceCreds.AuthToken)
	if err != nil {
		f.configErr = fmt.Errorf("failed to initialize provider client: %w", err)
		return f
	}
	f.defaultClient = client
	return f
}

// Build constructs a client for the given per-user credentials.
func (f *ClientFactory) Build(creds Credentials) (ProviderClient, error) {
	if !creds.complete() {
		return nil, &ClientBuildError{Err: errors.New("accountSid, authToken and phoneNumber are required")}
	}
	client, err := f.build(creds.AccountSID, creds.AuthToken)
	if err != nil {
		return nil, &ClientBuildError{Err: err}
	}
	return client, nil
}

// Default returns the service-level client for non-user-scoped calls.
func (f *ClientFactory) Default() (ProviderClient, error) {
	if f.configErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceNotConfigured, f.configErr)
	}
	if f.defaultClient == nil {
		return nil, ErrServiceNotConfigured
	}
	return f.defaultClient, nil
}

// Configured reports whether the default service client is usable.
func (f *ClientFactory) Configured() bool {
	return f.defaultClient != nil && f.configErr == nil
}

// ConfigError returns the standing configuration error message, if any.
func (f *ClientFactory) ConfigError() string {
	if f.configErr == nil {
		return ""
	}
	return f.configErr.Error()
}

// Verify checks a credential set against the provider: the account must be
// fetchable and the sender number must exist on it. Verification is
// advisory, so every failure mode collapses to false.
func (f *ClientFactory) Verify(ctx context.Context, creds Credentials) bool {
	client, err := f.Build(creds)
	if err != nil {
		f.logger.Debug("credential verification failed to build client", "error", err)
		return false
	}
	if err := client.FetchAccount(ctx); err != nil {
		f.logger.Debug("credential verification failed to fetch account", "account_sid", creds.AccountSID, "error", err)
		return false
	}
	lookup := strings.TrimPrefix(StripScheme(creds.PhoneNumber), "+")
	found, err := client.HasPhoneNumber(ctx, lookup)
	if err != nil {
		f.logger.Debug("credential verification failed to list phone numbers", "error", err)
		return false
	}
	return found
}
