package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Pinecone.IndexName != "cv-index" {
		t.Errorf("expected default index name cv-index, got %q", cfg.Pinecone.IndexName)
	}
	if cfg.Embeddings.Provider != "azure" {
		t.Errorf("expected default embeddings provider azure, got %q", cfg.Embeddings.Provider)
	}
	if cfg.Recruitment.BatchSize != 10 {
		t.Errorf("expected default batch size 10, got %d", cfg.Recruitment.BatchSize)
	}
	if cfg.Recruitment.DelayBetweenBatches != time.Second {
		t.Errorf("expected default batch delay 1s, got %s", cfg.Recruitment.DelayBetweenBatches)
	}
	if cfg.Email.QueueKey != "email:queue" {
		t.Errorf("expected default queue key email:queue, got %q", cfg.Email.QueueKey)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9999
  allowed_origins:
    - https://app.example.com
recruitment:
  batch_size: 25
  delay_between_batches: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Recruitment.BatchSize != 25 {
		t.Errorf("expected batch size 25, got %d", cfg.Recruitment.BatchSize)
	}
	if cfg.Recruitment.DelayBetweenBatches != 250*time.Millisecond {
		t.Errorf("expected batch delay 250ms, got %s", cfg.Recruitment.DelayBetweenBatches)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("expected configured allowed origins, got %v", cfg.Server.AllowedOrigins)
	}
	// Untouched sections keep their defaults
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("expected default smtp port 587, got %d", cfg.Email.SMTPPort)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("PINECONE_INDEX", "cv-index-test")
	t.Setenv("PRESELECTION_BATCH_DELAY", "2s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Pinecone.IndexName != "cv-index-test" {
		t.Errorf("expected index cv-index-test, got %q", cfg.Pinecone.IndexName)
	}
	if cfg.Recruitment.DelayBetweenBatches != 2*time.Second {
		t.Errorf("expected batch delay 2s, got %s", cfg.Recruitment.DelayBetweenBatches)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND_VALUE", "resolved")

	out := expandEnvVars("key: ${TEST_EXPAND_VALUE}")
	if out != "key: resolved" {
		t.Errorf("unexpected expansion %q", out)
	}

	// Unset variables are left verbatim
	out = expandEnvVars("key: ${TEST_EXPAND_MISSING}")
	if out != "key: ${TEST_EXPAND_MISSING}" {
		t.Errorf("unexpected expansion %q", out)
	}
}
