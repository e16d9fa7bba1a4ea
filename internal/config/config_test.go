package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{APIKey: "test-key"},
	}
}

func TestValidateValid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateInvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidateMissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding api key")
	}
}

func TestValidateOverlapExceedsChunk(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest = IngestConfig{ChunkWords: 100, OverlapWords: 100}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for overlap >= chunk size")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected provider=openai, got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("expected Dimensions=1536, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Retrieval.FetchLimit != 20 {
		t.Errorf("expected FetchLimit=20, got %d", cfg.Retrieval.FetchLimit)
	}
	if cfg.Retrieval.MMRLambda != 0.4 {
		t.Errorf("expected MMRLambda=0.4, got %v", cfg.Retrieval.MMRLambda)
	}
	if cfg.Answer.Contexts != 4 {
		t.Errorf("expected Contexts=4, got %d", cfg.Answer.Contexts)
	}
	if cfg.Answer.MaxExcerptRunes != 1000 {
		t.Errorf("expected MaxExcerptRunes=1000, got %d", cfg.Answer.MaxExcerptRunes)
	}
	if cfg.Ingest.ChunkWords != 800 || cfg.Ingest.OverlapWords != 120 {
		t.Errorf("expected chunking 800/120, got %d/%d", cfg.Ingest.ChunkWords, cfg.Ingest.OverlapWords)
	}
}

func TestApplyDefaultsLLMFallsBackToEmbeddingCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.BaseURL = "https://api.example.com/v1"
	cfg.ApplyDefaults()

	if cfg.LLM.APIKey != "test-key" {
		t.Errorf("expected LLM api key inherited, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != "https://api.example.com/v1" {
		t.Errorf("expected LLM base url inherited, got %q", cfg.LLM.BaseURL)
	}
}

func TestApplyDefaultsNoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Retrieval: RetrievalConfig{FetchLimit: 50, MMRLambda: 0.7},
		Answer:    AnswerConfig{Contexts: 6},
		LLM:       LLMConfig{APIKey: "own-key", Model: "gpt-4o"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Retrieval.FetchLimit != 50 || cfg.Retrieval.MMRLambda != 0.7 {
		t.Errorf("retrieval overridden: %+v", cfg.Retrieval)
	}
	if cfg.Answer.Contexts != 6 {
		t.Errorf("expected Contexts=6, got %d", cfg.Answer.Contexts)
	}
	if cfg.LLM.APIKey != "own-key" || cfg.LLM.Model != "gpt-4o" {
		t.Errorf("llm overridden: %+v", cfg.LLM)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("KONTEXT_TEST_KEY", "secret-value")

	in := []byte("api_key: ${KONTEXT_TEST_KEY}\nmodel: ${KONTEXT_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret-value\nmodel: gpt-4o-mini\n"
	if out != want {
		t.Errorf("expanded config:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
http:
  port: 9090
database:
  addrs: ["localhost:6379"]
embedding:
  api_key: ${KONTEXT_TEST_API_KEY:-file-key}
  model: text-embedding-3-small
answer:
  translate_to: English
`
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Embedding.APIKey != "file-key" {
		t.Errorf("api key = %q", cfg.Embedding.APIKey)
	}
	if cfg.Answer.TranslateTo != "English" {
		t.Errorf("translate_to = %q", cfg.Answer.TranslateTo)
	}
	// defaults applied on top of the file
	if cfg.Retrieval.MMRLambda != 0.4 {
		t.Errorf("mmr lambda = %v", cfg.Retrieval.MMRLambda)
	}
}
