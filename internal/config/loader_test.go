package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.AITimeout != 60*time.Second {
		t.Errorf("AITimeout = %v", cfg.AITimeout)
	}
	if cfg.EnableAuth {
		t.Error("auth enabled by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TOSFORGE_ADDR", ":9999")
	t.Setenv("TOSFORGE_AI_PROVIDER", "openai")
	t.Setenv("TOSFORGE_AI_BASE_URL", "http://localhost:11434/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.AIProvider != "openai" || cfg.AIBaseURL != "http://localhost:11434/v1" {
		t.Errorf("AI settings = %q %q", cfg.AIProvider, cfg.AIBaseURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TOSFORGE_AI_PROVIDER", "skynet")
	if _, err := Load(); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestLoadAuthNeedsSecret(t *testing.T) {
	t.Setenv("TOSFORGE_ENABLE_AUTH", "true")
	if _, err := Load(); err == nil {
		t.Error("auth without secret accepted")
	}
}
