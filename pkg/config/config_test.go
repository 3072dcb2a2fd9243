package config

import (
	"os"
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvAdminPassword, "s3cret")
	t.Setenv(EnvRemoteBaseURL, "http://localhost:8000")
}

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if !cfg.App.IsProd() {
		t.Fatal("expected IsProd to be true")
	}
	if cfg.Remote.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected remote base url: %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.Timeout != 10*time.Second {
		t.Fatalf("expected default remote timeout 10s, got %v", cfg.Remote.Timeout)
	}
	if cfg.Cart.FreeDeliveryThreshold != 100000 {
		t.Fatalf("unexpected free delivery threshold %d", cfg.Cart.FreeDeliveryThreshold)
	}
	if cfg.Cart.DeliveryFee != 15000 {
		t.Fatalf("unexpected delivery fee %d", cfg.Cart.DeliveryFee)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAdminPassword); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAdminPassword, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestTelegramEnabled(t *testing.T) {
	cfg := TelegramConfig{}
	if cfg.Enabled() {
		t.Fatal("expected disabled without token and chat id")
	}
	cfg = TelegramConfig{BotToken: "token", ChatID: "chat"}
	if !cfg.Enabled() {
		t.Fatal("expected enabled with token and chat id")
	}
}
