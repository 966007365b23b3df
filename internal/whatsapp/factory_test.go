package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

func TestFactoryBuildRequiresCompleteCredentials(t *testing.T) {
	f := NewClientFactory(fakeBuilder(&fakeClient{}), Credentials{}, logging.Default())

	for _, creds := range []Credentials{
		{},
		{AccountSID: "AC1"},
		{AccountSID: "AC1", AuthToken: "t"},
		{AuthToken: "t", PhoneNumber: "+15550001111"},
	} {
		_, err := f.Build(creds)
		var buildErr *ClientBuildError
		if !errors.As(err, &buildErr) {
			t.Errorf("Build(%+v) = %v, want ClientBuildError", creds, err)
		}
	}

	if _, err := f.Build(testCreds); err != nil {
		t.Fatalf("Build with complete creds: %v", err)
	}
}

func TestFactoryBuildWrapsProviderRejection(t *testing.T) {
	f := NewClientFactory(failingBuilder("bad sid"), Credentials{}, logging.Default())
	_, err := f.Build(testCreds)
	var buildErr *ClientBuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected ClientBuildError, got %v", err)
	}
}

func TestFactoryDefaultNotConfigured(t *testing.T) {
	f := NewClientFactory(fakeBuilder(&fakeClient{}), Credentials{}, logging.Default())
	if f.Configured() {
		t.Error("factory without service creds should not be configured")
	}
	if f.ConfigError() == "" {
		t.Error("expected a standing config error message")
	}
	_, err := f.Default()
	if !errors.Is(err, ErrServiceNotConfigured) {
		t.Fatalf("Default() = %v, want ErrServiceNotConfigured", err)
	}
}

func TestFactoryDefaultConfigured(t *testing.T) {
	f := NewClientFactory(fakeBuilder(&fakeClient{}), testCreds, logging.Default())
	if !f.Configured() {
		t.Fatal("factory with service creds should be configured")
	}
	client, err := f.Default()
	if err != nil || client == nil {
		t.Fatalf("Default() = %v, %v", client, err)
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	logger := logging.Default()

	t.Run("matching number", func(t *testing.T) {
		client := &fakeClient{numbers: []string{"15550001111"}}
		f := NewClientFactory(fakeBuilder(client), Credentials{}, logger)
		if !f.Verify(ctx, testCreds) {
			t.Error("expected verification to succeed")
		}
	})

	t.Run("scheme prefix stripped for lookup", func(t *testing.T) {
		client := &fakeClient{numbers: []string{"15550001111"}}
		f := NewClientFactory(fakeBuilder(client), Credentials{}, logger)
		creds := testCreds
		creds.PhoneNumber = "whatsapp:+15550001111"
		if !f.Verify(ctx, creds) {
			t.Error("expected verification to strip whatsapp: and + before lookup")
		}
	})

	t.Run("no matching number", func(t *testing.T) {
		client := &fakeClient{numbers: []string{"19998887777"}}
		f := NewClientFactory(fakeBuilder(client), Credentials{}, logger)
		if f.Verify(ctx, testCreds) {
			t.Error("expected verification to fail without a matching number")
		}
	})

	t.Run("account fetch failure", func(t *testing.T) {
		client := &fakeClient{accountErr: errors.New("401 unauthorized"), numbers: []string{"15550001111"}}
		f := NewClientFactory(fakeBuilder(client), Credentials{}, logger)
		if f.Verify(ctx, testCreds) {
			t.Error("expected verification to fail on account error")
		}
	})

	t.Run("list failure collapses to false", func(t *testing.T) {
		client := &fakeClient{listErr: errors.New("boom")}
		f := NewClientFactory(fakeBuilder(client), Credentials{}, logger)
		if f.Verify(ctx, testCreds) {
			t.Error("expected verification to fail on list error")
		}
	})

	t.Run("build failure collapses to false", func(t *testing.T) {
		f := NewClientFactory(failingBuilder("nope"), Credentials{}, logger)
		if f.Verify(ctx, testCreds) {
			t.Error("expected verification to fail when client cannot be built")
		}
	})
}
