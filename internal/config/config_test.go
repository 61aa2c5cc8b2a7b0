package config

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QDRANT_HOST", "")
	t.Setenv("QDRANT_PORT", "")
	t.Setenv("DOCRAG_CHUNK_SIZE", "")

	cfg := Load()

	if cfg.QdrantHost != "localhost" {
		t.Errorf("QdrantHost: expected localhost, got %q", cfg.QdrantHost)
	}
	if cfg.QdrantPort != 6334 {
		t.Errorf("QdrantPort: expected 6334, got %d", cfg.QdrantPort)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize: expected 500, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 50 {
		t.Errorf("ChunkOverlap: expected 50, got %d", cfg.ChunkOverlap)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel: expected gpt-4o-mini, got %q", cfg.ChatModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QDRANT_PORT", "7777")
	t.Setenv("DOCRAG_TOP_K", "3")
	t.Setenv("BLOB_USE_SSL", "true")

	cfg := Load()

	if cfg.QdrantPort != 7777 {
		t.Errorf("QdrantPort: expected 7777, got %d", cfg.QdrantPort)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK: expected 3, got %d", cfg.TopK)
	}
	if !cfg.BlobUseSSL {
		t.Error("BlobUseSSL: expected true")
	}
}

// TestValidateEnumeratesMissing verifies that all absent credentials are
// reported together, not just the first one.
func TestValidateEnumeratesMissing(t *testing.T) {
	cfg := &Config{QdrantHost: "localhost"}

	err := cfg.Validate(true)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingError, got %T", err)
	}

	want := []string{"OPENAI_API_KEY", "BLOB_ENDPOINT", "BLOB_ACCESS_KEY", "BLOB_SECRET_KEY"}
	if len(missing.Vars) != len(want) {
		t.Fatalf("expected %d missing vars, got %v", len(want), missing.Vars)
	}
	for i, v := range want {
		if missing.Vars[i] != v {
			t.Errorf("missing[%d]: expected %s, got %s", i, v, missing.Vars[i])
		}
	}
}

func TestValidateBlobOptional(t *testing.T) {
	cfg := &Config{QdrantHost: "localhost", OpenAIKey: "sk-test"}

	if err := cfg.Validate(false); err != nil {
		t.Errorf("expected no error without blob requirement, got %v", err)
	}
	if err := cfg.Validate(true); err == nil {
		t.Error("expected error when blob credentials required")
	}
}
