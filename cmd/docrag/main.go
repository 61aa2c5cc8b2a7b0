// Package main provides the docrag CLI for ingesting documents and asking
// questions over them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/docrag/internal/config"
	"github.com/bull/docrag/internal/embedding"
	"github.com/bull/docrag/internal/generation"
	ghclient "github.com/bull/docrag/internal/github"
	"github.com/bull/docrag/internal/pipeline"
	"github.com/bull/docrag/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Document RAG toolkit",
	Long: `Ingest documents into a Qdrant vector index and ask questions over
them with retrieval-augmented generation.

Environment variables:
  QDRANT_HOST             Qdrant hostname (default: localhost)
  QDRANT_PORT             Qdrant gRPC port (default: 6334)
  DOCRAG_COLLECTION       Collection name (default: docrag-chunks)
  OPENAI_API_KEY          OpenAI API key (required)
  DOCRAG_CHAT_MODEL       Chat model (default: gpt-4o-mini)
  DOCRAG_EMBEDDING_MODEL  Embedding model (default: text-embedding-3-small)
  BLOB_ENDPOINT           S3-compatible endpoint for blob commands
  BLOB_ACCESS_KEY         Blob access key
  BLOB_SECRET_KEY         Blob secret key
  BLOB_BUCKET             Blob bucket (default: documents)
  GITHUB_TOKEN            GitHub token for higher rate limits (optional)`,
	SilenceUsage: true,
}

var (
	flagChunkSize    int
	flagChunkOverlap int
	flagGithub       string
	flagFromBlob     bool
	flagTopK         int
	flagSource       string
	flagStream       bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the vector collection and payload indexes",
	RunE:  runSetup,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest documents into the index",
	Long: `Ingest a file or every supported file in a directory.

With --github, ingest all markdown files from a repository instead,
e.g. docrag ingest --github golang/go/doc. With --from-blob, download
the contents of the blob bucket and ingest those.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Retrieve matching chunks without generating an answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the index currently holds",
	RunE:  runStats,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the vector collection",
	RunE:  runReset,
}

func init() {
	ingestCmd.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "maximum chunk length in runes")
	ingestCmd.Flags().IntVar(&flagChunkOverlap, "chunk-overlap", -1, "runes carried between consecutive chunks")
	ingestCmd.Flags().StringVar(&flagGithub, "github", "", "ingest from a GitHub repository (owner/repo[/path])")
	ingestCmd.Flags().BoolVar(&flagFromBlob, "from-blob", false, "ingest the contents of the blob bucket")

	askCmd.Flags().IntVar(&flagTopK, "top-k", 0, "number of chunks to retrieve")
	askCmd.Flags().StringVar(&flagSource, "source", "", "restrict retrieval to one source document")
	askCmd.Flags().BoolVar(&flagStream, "stream", false, "stream the answer as it is generated")

	searchCmd.Flags().IntVar(&flagTopK, "top-k", 0, "number of chunks to retrieve")
	searchCmd.Flags().StringVar(&flagSource, "source", "", "restrict retrieval to one source document")

	rootCmd.AddCommand(setupCmd, ingestCmd, askCmd, searchCmd, statsCmd, resetCmd, sampleCmd, blobCmd)
}

func main() {
	// .env is for local development, missing in production is fine
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStorage connects to Qdrant with the configured collection.
func openStorage(cfg *config.Config) (*storage.QdrantStorage, error) {
	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("connect to Qdrant at %s:%d: %w", cfg.QdrantHost, cfg.QdrantPort, err)
	}
	return store, nil
}

// buildPipeline assembles the full pipeline from configuration. The caller
// owns closing the returned storage.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *storage.QdrantStorage, error) {
	if err := cfg.Validate(false); err != nil {
		return nil, nil, err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := embedding.NewClient(cfg.OpenAIKey)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	embedder := embedding.NewEmbedder(client, cfg.EmbeddingModel, cfg.EmbedBatchSize)
	generator := generation.NewGenerator(client.Client(), cfg.ChatModel)

	opts := pipeline.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TopK:         cfg.TopK,
	}
	if flagChunkSize > 0 {
		opts.ChunkSize = flagChunkSize
	}
	if flagChunkOverlap >= 0 {
		opts.ChunkOverlap = flagChunkOverlap
	}

	p := pipeline.New(embedder, store, pipeline.WrapGenerator(generator), opts, slog.Default())
	return p, store, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	fmt.Printf("Collection %q ready\n", cfg.CollectionName)
	return nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	p, store, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := p.Setup(ctx); err != nil {
		return fmt.Errorf("prepare collection: %w", err)
	}

	var result *pipeline.IngestResult
	switch {
	case flagGithub != "":
		owner, repo, root, err := ghclient.ParseRepoSpec(flagGithub)
		if err != nil {
			return err
		}
		client, err := ghclient.NewClient(os.Getenv("GITHUB_TOKEN"))
		if err != nil {
			return fmt.Errorf("create GitHub client: %w", err)
		}
		src := ghclient.NewSource(client, owner, repo, root)
		fmt.Printf("Ingesting %s...\n", src.Name())
		result, err = p.IngestRepo(ctx, src)
		if err != nil {
			return err
		}

	case flagFromBlob:
		dir, err := os.MkdirTemp("", "docrag-blob-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		bucket, err := openBlobStore(ctx, cfg)
		if err != nil {
			return err
		}
		paths, err := bucket.DownloadAll(ctx, dir)
		if err != nil {
			return fmt.Errorf("download bucket: %w", err)
		}
		fmt.Printf("Downloaded %d files from bucket %q\n", len(paths), cfg.BlobBucket)
		result, err = p.IngestDir(ctx, dir)
		if err != nil {
			return err
		}

	case len(args) == 1:
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		if info.IsDir() {
			result, err = p.IngestDir(ctx, args[0])
		} else {
			result, err = p.Ingest(ctx, args[0])
		}
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("nothing to ingest: give a path, --github or --from-blob")
	}

	printIngestResult(result)
	return nil
}

func printIngestResult(result *pipeline.IngestResult) {
	fmt.Println()
	fmt.Println("Ingestion complete")
	fmt.Printf("  Documents: %d\n", result.Documents)
	fmt.Printf("  Chunks:    %d indexed, %d failed\n", result.Indexed, result.Failed)
	fmt.Printf("  Duration:  %s\n", result.Duration.Round(time.Millisecond))

	if len(result.Skipped) > 0 {
		fmt.Println()
		fmt.Println("Skipped:")
		for _, s := range result.Skipped {
			fmt.Printf("  - %s: %s\n", s.Path, s.Reason)
		}
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	p, store, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	question := args[0]

	if flagStream {
		return askStreaming(ctx, p, question)
	}

	result, err := p.Query(ctx, question, flagTopK, flagSource)
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	printSources(result.Sources)
	return nil
}

func askStreaming(ctx context.Context, p *pipeline.Pipeline, question string) error {
	result, stream, err := p.QueryStream(ctx, question, flagTopK, flagSource)
	if err != nil {
		return err
	}
	if stream == nil {
		fmt.Println(result.Answer)
		return nil
	}
	defer stream.Close()

	for stream.Next() {
		fmt.Print(stream.Token())
	}
	fmt.Println()
	if err := stream.Err(); err != nil {
		return fmt.Errorf("stream answer: %w", err)
	}

	printSources(result.Sources)
	return nil
}

func printSources(sources []storage.SearchResult) {
	if len(sources) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Sources:")
	for _, s := range sources {
		fmt.Printf("  - %s (page %d, score %.3f)\n", s.Source, s.Page, s.Score)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	p, store, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := p.SearchOnly(ctx, args[0], flagTopK, flagSource)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matching chunks.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s (page %d, score %.3f)\n", i+1, r.Source, r.Page, r.Score)
		fmt.Printf("   %s\n\n", truncate(r.Content, 200))
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetStats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Collection: %s\n", cfg.CollectionName)
	fmt.Printf("  Chunks:        %d\n", stats.DocumentCount)
	fmt.Printf("  Storage (est): %.1f MB\n", float64(stats.StorageBytes)/(1024*1024))
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset collection: %w", err)
	}
	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	fmt.Printf("Collection %q reset\n", cfg.CollectionName)
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
