package nexus

import (
	"testing"
	"time"

	"github.com/Desarso/nexus/credentials"
	"github.com/zalando/go-keyring"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ModelName != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash, got %s", cfg.ModelName)
	}
	if cfg.ToolLatency != 800*time.Millisecond {
		t.Errorf("expected 800ms, got %s", cfg.ToolLatency)
	}
	if cfg.StoreType != StoreSQLite || cfg.ServerPort != 8080 || !cfg.PrimeHistory {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.CleanupSchedule != "@every 10m" || cfg.SessionTTL != 2*time.Hour || cfg.TurnTimeout != time.Minute {
		t.Errorf("unexpected session defaults: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("NEXUS_MODEL", "gemini-2.0-flash")
	t.Setenv("NEXUS_TOOL_LATENCY", "10ms")
	t.Setenv("NEXUS_STORE", "none")
	t.Setenv("NEXUS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("NEXUS_PRIME_HISTORY", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ModelName != "gemini-2.0-flash" || cfg.ToolLatency != 10*time.Millisecond {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.StoreType != StoreNone || cfg.PrimeHistory {
		t.Errorf("unexpected store or primer settings: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_RejectsUnknownStore(t *testing.T) {
	t.Setenv("NEXUS_STORE", "mysql")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for unsupported store")
	}
}

func TestConfig_CredentialPrecedence(t *testing.T) {
	keyring.MockInit()
	cfg := NewConfig()

	if key, _ := cfg.Credential(); key != "" {
		t.Errorf("expected no key, got %q", key)
	}

	_ = credentials.Set(credentials.KeyGemini, "keyring-key")
	if key, _ := cfg.Credential(); key != "keyring-key" {
		t.Errorf("expected keyring key, got %q", key)
	}

	cfg.APIKey = "api-key"
	if key, _ := cfg.Credential(); key != "api-key" {
		t.Errorf("expected API_KEY to beat the keyring, got %q", key)
	}

	cfg.WithAPIKey("gemini-key")
	if key, _ := cfg.Credential(); key != "gemini-key" {
		t.Errorf("expected GEMINI_API_KEY to win, got %q", key)
	}
}

func TestConfig_WithPostgresStore(t *testing.T) {
	cfg := NewConfig().WithPostgresStore("db", "nexus", "secret", "hospital", 5432)
	want := "host=db user=nexus password=secret dbname=hospital port=5432 sslmode=disable"
	if cfg.StoreType != StorePostgres || cfg.StoreDSN != want {
		t.Errorf("unexpected postgres config: %s %s", cfg.StoreType, cfg.StoreDSN)
	}
}
