package whatsapp

import (
	"context"
	"errors"
	"fmt"
)

// fakeClient implements ProviderClient for tests.
type fakeClient struct {
	accountErr error
	numbers    []string
	listErr    error
	sendErr    error
	sent       []ProviderMessage
	sendFn     func(msg ProviderMessage) (string, error)
}

func (f *fakeClient) FetchAccount(context.Context) error { return f.accountErr }

func (f *fakeClient) HasPhoneNumber(_ context.Context, phoneNumber string) (bool, error) {
	if f.listErr != nil {
		return false, f.listErr
	}
	for _, n := range f.numbers {
		if n == phoneNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClient) Send(_ context.Context, msg ProviderMessage) (string, error) {
	f.sent = append(f.sent, msg)
	if f.sendFn != nil {
		return f.sendFn(msg)
	}
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return fmt.Sprintf("SM%04d", len(f.sent)), nil
}

func fakeBuilder(client *fakeClient) ClientBuilder {
	return func(accountSID, authToken string) (ProviderClient, error) {
		return client, nil
	}
}

func failingBuilder(msg string) ClientBuilder {
	return func(accountSID, authToken string) (ProviderClient, error) {
		return nil, errors.New(msg)
	}
}

var testCreds = Credentials{
	AccountSID:  "AC0000000000000000000000000000test",
	AuthToken:   "token",
	PhoneNumber: "+15550001111",
}
