package oauthstore_test

import (
	"testing"

	oauthstore "github.com/goliatone/go-oauth-store"
)

func TestNewFacade_RequiresService(t *testing.T) {
	if _, err := oauthstore.NewFacade(nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestNewFacade_WiresEveryCommand(t *testing.T) {
	service, err := oauthstore.NewService(oauthstore.Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	facade, err := oauthstore.NewFacade(service)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	if facade.Service() == nil {
		t.Fatalf("expected service accessor to return the wired service")
	}

	commands := facade.Commands()
	if commands.SetAccessToken == nil ||
		commands.IssueBearerToken == nil ||
		commands.ExpireAccessToken == nil ||
		commands.ExpireUserTokens == nil ||
		commands.DeleteUserTokens == nil ||
		commands.SaveAuthorizationCode == nil ||
		commands.FlushAccessCache == nil {
		t.Fatalf("expected every command handler to be wired, got %#v", commands)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := oauthstore.DefaultConfig()
	if cfg.ServiceName != "oauth-store" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}
