// Package main provides the docrag MCP server entry point.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bull/docrag/internal/config"
	"github.com/bull/docrag/internal/embedding"
	"github.com/bull/docrag/internal/generation"
	mcpserver "github.com/bull/docrag/internal/mcp"
	"github.com/bull/docrag/internal/pipeline"
	"github.com/bull/docrag/internal/storage"
)

func main() {
	// .env is for local development, missing in production is fine
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg := config.Load()
	if err := cfg.Validate(false); err != nil {
		log.Fatalf("configuration: %v", err)
	}
	port := getEnv("PORT", "8080")

	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionName)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	client, err := embedding.NewClient(cfg.OpenAIKey)
	if err != nil {
		log.Fatalf("failed to create OpenAI client: %v", err)
	}
	embedder := embedding.NewEmbedder(client, cfg.EmbeddingModel, cfg.EmbedBatchSize)
	generator := generation.NewGenerator(client.Client(), cfg.ChatModel)

	p := pipeline.New(embedder, store, pipeline.WrapGenerator(generator), pipeline.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TopK:         cfg.TopK,
	}, nil)

	server := mcpserver.NewServer(&mcpserver.Config{
		Pipeline:   p,
		Storage:    store,
		Collection: cfg.CollectionName,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", mcpserver.NewLandingHandler())
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(store))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	// SERVER_MODE=true serves MCP over HTTP for remote clients; otherwise
	// the server speaks stdio with a background health endpoint.
	if getEnv("SERVER_MODE", "false") == "true" {
		addr := "0.0.0.0:" + port
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	go func() {
		addr := "0.0.0.0:" + port
		log.Printf("Starting health server on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("health server error: %v", err)
		}
	}()

	log.Println("Starting docrag MCP server (stdio mode)...")
	if err := server.Run(ctx); err != nil {
		log.Printf("server error: %v", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
