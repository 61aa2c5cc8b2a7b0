// Package pipeline wires loading, chunking, embedding, storage and
// generation into the two top-level flows: ingesting documents and
// answering questions over them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bull/docrag/internal/chunker"
	"github.com/bull/docrag/internal/generation"
	"github.com/bull/docrag/internal/github"
	"github.com/bull/docrag/internal/loader"
	"github.com/bull/docrag/internal/markdown"
	"github.com/bull/docrag/internal/storage"
)

// NoResultsAnswer is returned verbatim when retrieval finds nothing, so
// the model never answers from thin air.
const NoResultsAnswer = "I couldn't find any relevant information in the indexed documents."

// Embedder turns text into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Index stores chunk vectors and serves retrieval.
type Index interface {
	EnsureCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, records []storage.ChunkRecord) (storage.UpsertResult, error)
	HybridSearch(ctx context.Context, queryText string, queryVector []float32, topK int, sourceFilter string) ([]storage.SearchResult, error)
	GetStats(ctx context.Context) (storage.Stats, error)
}

// TokenStream yields answer fragments in generation order.
type TokenStream interface {
	Next() bool
	Token() string
	Err() error
	Close() error
}

// Generator produces answers grounded in retrieved context.
type Generator interface {
	Complete(ctx context.Context, question, contextText string) (string, error)
	CompleteStream(ctx context.Context, question, contextText string) TokenStream
}

// generatorAdapter narrows *generation.Generator's concrete stream type to
// the TokenStream interface.
type generatorAdapter struct {
	inner *generation.Generator
}

// WrapGenerator adapts a generation.Generator to the Generator interface.
func WrapGenerator(g *generation.Generator) Generator {
	return generatorAdapter{inner: g}
}

func (a generatorAdapter) Complete(ctx context.Context, question, contextText string) (string, error) {
	return a.inner.Complete(ctx, question, contextText)
}

func (a generatorAdapter) CompleteStream(ctx context.Context, question, contextText string) TokenStream {
	return a.inner.CompleteStream(ctx, question, contextText)
}

// Options tunes chunking and retrieval defaults.
type Options struct {
	ChunkSize    int // maximum chunk length in runes
	ChunkOverlap int // runes carried between consecutive chunks
	TopK         int // default result count for retrieval
}

// Pipeline orchestrates ingestion and querying.
type Pipeline struct {
	embedder  Embedder
	index     Index
	generator Generator
	opts      Options
	logger    *slog.Logger
}

// IngestResult reports what one ingestion run did.
type IngestResult struct {
	Documents int           // documents that produced at least one chunk
	Chunks    int           // chunks produced across all documents
	Indexed   int           // chunks accepted by the index
	Failed    int           // chunks lost to failed upsert batches
	Skipped   []SkippedDoc  // documents that could not be processed
	Duration  time.Duration
}

// SkippedDoc records a document left out of the index and why.
type SkippedDoc struct {
	Path   string
	Reason string
}

// RAGResult is a generated answer with the evidence it was built from.
type RAGResult struct {
	Question string
	Answer   string
	Sources  []storage.SearchResult
}

// New creates a Pipeline. Zero Options fields fall back to chunker and
// retrieval defaults.
func New(embedder Embedder, index Index, generator Generator, opts Options, logger *slog.Logger) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 500
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = 0
	}
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		embedder:  embedder,
		index:     index,
		generator: generator,
		opts:      opts,
		logger:    logger,
	}
}

// Setup prepares the index for ingestion, creating the collection and its
// payload indexes if needed.
func (p *Pipeline) Setup(ctx context.Context) error {
	return p.index.EnsureCollection(ctx)
}

// Ingest loads one file, chunks it, embeds the chunks and upserts them.
// Unsupported formats and empty documents are reported as skipped rather
// than failing the run.
func (p *Pipeline) Ingest(ctx context.Context, path string) (*IngestResult, error) {
	start := time.Now()
	result := &IngestResult{}
	if err := p.ingestFile(ctx, path, result); err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// IngestDir ingests every supported file in dir. Documents that fail to
// load are skipped; embedding and index errors abort the run.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (*IngestResult, error) {
	start := time.Now()

	paths, err := loader.ListSupported(dir)
	if err != nil {
		return nil, err
	}
	p.logger.Info("ingesting directory", "dir", dir, "files", len(paths))

	result := &IngestResult{}
	for _, path := range paths {
		if err := p.ingestFile(ctx, path, result); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(start)
	p.logger.Info("ingestion complete",
		"documents", result.Documents,
		"chunks", result.Chunks,
		"indexed", result.Indexed,
		"skipped", len(result.Skipped),
		"duration", result.Duration,
	)
	return result, nil
}

// IngestRepo ingests every markdown file reachable from a GitHub source.
// Each file is pre-split at H1/H2 boundaries so chunks keep their header
// context, then chunked like any other text.
func (p *Pipeline) IngestRepo(ctx context.Context, src *github.Source) (*IngestResult, error) {
	start := time.Now()

	docs, err := src.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch repository: %w", err)
	}
	p.logger.Info("ingesting repository", "source", src.Name(), "files", len(docs))

	splitter := markdown.NewSplitter()
	result := &IngestResult{}
	for _, doc := range docs {
		sections, err := splitter.Split([]byte(doc.Content))
		if err != nil {
			p.logger.Warn("skipping document", "path", doc.Path, "error", err)
			result.Skipped = append(result.Skipped, SkippedDoc{Path: doc.Path, Reason: err.Error()})
			continue
		}

		source := src.Name() + "/" + doc.Path
		var chunks []chunker.Chunk
		for _, section := range sections {
			chunks = append(chunks, chunker.Build(
				source, 0, section.Text(), len(chunks),
				p.opts.ChunkSize, p.opts.ChunkOverlap)...)
		}
		if len(chunks) == 0 {
			result.Skipped = append(result.Skipped, SkippedDoc{Path: doc.Path, Reason: "no text content"})
			continue
		}

		if err := p.indexChunks(ctx, chunks, result); err != nil {
			return nil, err
		}
		result.Documents++
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, path string, result *IngestResult) error {
	sections, err := loader.Load(path)
	if err != nil {
		if errors.Is(err, loader.ErrUnsupportedFormat) || errors.Is(err, loader.ErrNoText) {
			p.logger.Warn("skipping document", "path", path, "reason", err)
			result.Skipped = append(result.Skipped, SkippedDoc{Path: path, Reason: err.Error()})
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	var chunks []chunker.Chunk
	for _, section := range sections {
		chunks = append(chunks, chunker.Build(
			path, section.Page, section.Text, len(chunks),
			p.opts.ChunkSize, p.opts.ChunkOverlap)...)
	}
	if len(chunks) == 0 {
		result.Skipped = append(result.Skipped, SkippedDoc{Path: path, Reason: "no text content"})
		return nil
	}
	p.logger.Debug("chunked document", "path", path, "chunks", len(chunks))

	if err := p.indexChunks(ctx, chunks, result); err != nil {
		return err
	}
	result.Documents++
	return nil
}

// indexChunks embeds a document's chunks and upserts them, accumulating
// counts into result.
func (p *Pipeline) indexChunks(ctx context.Context, chunks []chunker.Chunk, result *IngestResult) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	records := make([]storage.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = storage.ChunkRecord{
			ID:         c.ID,
			Content:    c.Content,
			Source:     c.Source,
			Page:       c.Page,
			ChunkIndex: c.Index,
			Embedding:  vectors[i],
		}
	}

	upserted, err := p.index.UpsertChunks(ctx, records)
	if err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}
	result.Chunks += len(chunks)
	result.Indexed += upserted.Indexed
	result.Failed += upserted.Failed
	return nil
}

// Query retrieves context for the question and generates a grounded
// answer. When retrieval comes back empty the generator is not called and
// the answer is NoResultsAnswer.
func (p *Pipeline) Query(ctx context.Context, question string, topK int, sourceFilter string) (*RAGResult, error) {
	results, err := p.retrieve(ctx, question, topK, sourceFilter)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &RAGResult{Question: question, Answer: NoResultsAnswer}, nil
	}

	answer, err := p.generator.Complete(ctx, question, formatContext(results))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &RAGResult{Question: question, Answer: answer, Sources: results}, nil
}

// QueryStream is Query with a streamed answer. The returned sources are
// final; the stream may be nil when retrieval found nothing, in which case
// the result already carries NoResultsAnswer.
func (p *Pipeline) QueryStream(ctx context.Context, question string, topK int, sourceFilter string) (*RAGResult, TokenStream, error) {
	results, err := p.retrieve(ctx, question, topK, sourceFilter)
	if err != nil {
		return nil, nil, err
	}
	if len(results) == 0 {
		return &RAGResult{Question: question, Answer: NoResultsAnswer}, nil, nil
	}

	stream := p.generator.CompleteStream(ctx, question, formatContext(results))
	return &RAGResult{Question: question, Sources: results}, stream, nil
}

// SearchOnly retrieves chunks without generating an answer.
func (p *Pipeline) SearchOnly(ctx context.Context, query string, topK int, sourceFilter string) ([]storage.SearchResult, error) {
	return p.retrieve(ctx, query, topK, sourceFilter)
}

// Stats reports what the index currently holds.
func (p *Pipeline) Stats(ctx context.Context) (storage.Stats, error) {
	return p.index.GetStats(ctx)
}

func (p *Pipeline) retrieve(ctx context.Context, query string, topK int, sourceFilter string) ([]storage.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if topK <= 0 {
		topK = p.opts.TopK
	}

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := p.index.HybridSearch(ctx, query, vector, topK, sourceFilter)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

// formatContext renders retrieved chunks as labelled blocks the generator
// can cite.
func formatContext(results []storage.SearchResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("[Source: %s, Page %d]\n%s", r.Source, r.Page, r.Content)
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
