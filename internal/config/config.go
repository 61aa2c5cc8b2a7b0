// Package config provides process-wide configuration loaded from the
// environment. The Config struct is constructed once at process entry and
// injected into each component; nothing in this package is a global.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all settings for the RAG pipeline and its collaborators.
type Config struct {
	// Qdrant settings
	QdrantHost     string
	QdrantPort     int
	CollectionName string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string

	// Blob storage (S3-compatible) settings
	BlobEndpoint  string
	BlobAccessKey string
	BlobSecretKey string
	BlobBucket    string
	BlobUseSSL    bool

	// Pipeline settings
	TopK           int
	ChunkSize      int
	ChunkOverlap   int
	EmbedBatchSize int
}

// Load reads configuration from environment variables, applying defaults
// for everything except credentials.
func Load() *Config {
	return &Config{
		QdrantHost:     getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:     getEnvInt("QDRANT_PORT", 6334),
		CollectionName: getEnv("DOCRAG_COLLECTION", "docrag-chunks"),

		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("DOCRAG_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("DOCRAG_EMBEDDING_MODEL", "text-embedding-3-small"),

		BlobEndpoint:  os.Getenv("BLOB_ENDPOINT"),
		BlobAccessKey: os.Getenv("BLOB_ACCESS_KEY"),
		BlobSecretKey: os.Getenv("BLOB_SECRET_KEY"),
		BlobBucket:    getEnv("BLOB_BUCKET", "documents"),
		BlobUseSSL:    getEnvBool("BLOB_USE_SSL", false),

		TopK:           getEnvInt("DOCRAG_TOP_K", 5),
		ChunkSize:      getEnvInt("DOCRAG_CHUNK_SIZE", 500),
		ChunkOverlap:   getEnvInt("DOCRAG_CHUNK_OVERLAP", 50),
		EmbedBatchSize: getEnvInt("DOCRAG_EMBED_BATCH", 64),
	}
}

// MissingError reports required settings that are absent from the
// environment. It enumerates every missing variable rather than failing on
// the first one so the operator can fix them all at once.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing configuration: %s", strings.Join(e.Vars, ", "))
}

// Validate checks that the credentials needed before making any external
// call are present. It returns a *MissingError listing every absent
// variable, or nil if the configuration is complete. Blob credentials are
// only required when requireBlob is set, since blob upload is optional.
func (c *Config) Validate(requireBlob bool) error {
	var missing []string

	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.QdrantHost == "" {
		missing = append(missing, "QDRANT_HOST")
	}
	if requireBlob {
		if c.BlobEndpoint == "" {
			missing = append(missing, "BLOB_ENDPOINT")
		}
		if c.BlobAccessKey == "" {
			missing = append(missing, "BLOB_ACCESS_KEY")
		}
		if c.BlobSecretKey == "" {
			missing = append(missing, "BLOB_SECRET_KEY")
		}
	}

	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}
