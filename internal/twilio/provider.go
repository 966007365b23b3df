package twilio

import (
	"context"
	"log/slog"

	"github.com/aaraconnect/whatsapp-platform/internal/whatsapp"
)

// Provider adapts Client to the capability interface the dispatch engine
// consumes.
type Provider struct {
	client *Client
}

var _ whatsapp.ProviderClient = (*Provider)(nil)

// NewProvider wraps a Client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) FetchAccount(ctx context.Context) error {
	_, err := p.client.FetchAccount(ctx)
	return err
}

func (p *Provider) HasPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	numbers, err := p.client.ListIncomingPhoneNumbers(ctx, phoneNumber)
	if err != nil {
		return false, err
	}
	return len(numbers) > 0, nil
}

func (p *Provider) Send(ctx context.Context, msg whatsapp.ProviderMessage) (string, error) {
	created, err := p.client.SendMessage(ctx, SendMessageRequest{
		From:     msg.From,
		To:       msg.To,
		Body:     msg.Body,
		MediaURL: msg.MediaURL,
	})
	if err != nil {
		return "", err
	}
	return created.SID, nil
}

// Builder returns a whatsapp.ClientBuilder that constructs real Twilio
// clients. baseURL is overridable for tests; empty means production.
func Builder(baseURL string, logger *slog.Logger) whatsapp.ClientBuilder {
	return func(accountSID, authToken string) (whatsapp.ProviderClient, error) {
		client, err := New(Config{
			AccountSID: accountSID,
			AuthToken:  authToken,
			BaseURL:    baseURL,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return NewProvider(client), nil
	}
}
