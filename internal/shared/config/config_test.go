package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_UPLOAD_BYTES", "MAX_INFLIGHT_AI_CALLS", "GATE_WAIT_TIMEOUT", "LLM_PROVIDER", "OBJECT_STORE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Fatalf("expected 5MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxInflightAI != 8 {
		t.Fatalf("expected 8 inflight AI calls, got %d", cfg.MaxInflightAI)
	}
	if cfg.GateWaitTimeout != 10*time.Second {
		t.Fatalf("expected 10s gate wait, got %s", cfg.GateWaitTimeout)
	}
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected default provider openai, got %s", cfg.LLMProvider)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected default store local, got %s", cfg.ObjectStoreType)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("AI_REQUEST_TIMEOUT", "15s")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env production, got %s", cfg.Env)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.LLMProvider)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected store s3, got %s", cfg.ObjectStoreType)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Fatalf("expected 1024 byte limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.AITimeout != 15*time.Second {
		t.Fatalf("expected 15s AI timeout, got %s", cfg.AITimeout)
	}
}

func TestInvalidNumericEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("MAX_INFLIGHT_AI_CALLS", "-3")

	cfg := Load()

	if cfg.MaxUploadBytes != 5<<20 {
		t.Fatalf("expected default upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxInflightAI != 8 {
		t.Fatalf("expected default inflight limit, got %d", cfg.MaxInflightAI)
	}
}
