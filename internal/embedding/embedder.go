// Package embedding converts text into fixed-length vectors using the
// OpenAI embeddings API. Batches are sequential and order-preserving; a
// failed batch aborts the call and the error carries the underlying cause.
package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

const (
	// DefaultModel is the embedding model used unless configured otherwise.
	DefaultModel = "text-embedding-3-small"

	// Dimension is the vector size produced by text-embedding-3-small.
	// This matches storage.VectorDimension (1536).
	Dimension = 1536

	// DefaultBatchSize bounds texts per request. The API accepts larger
	// batches, but a modest size keeps requests within token limits for
	// typical chunk lengths.
	DefaultBatchSize = 64
)

// Embedder generates embeddings for batches of text.
type Embedder struct {
	client    *Client
	model     string
	batchSize int
}

// NewEmbedder creates an Embedder with the given client, model and batch
// size. Zero values select DefaultModel and DefaultBatchSize.
func NewEmbedder(client *Client, model string, batchSize int) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Embedder{
		client:    client,
		model:     model,
		batchSize: batchSize,
	}
}

// Embed generates the embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for the given texts, in input order.
// Requests are issued sequentially in fixed-size batches; any API error
// aborts the call and propagates unretried.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	allVectors := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += e.batchSize {
		end := min(i+e.batchSize, len(texts))
		batch := texts[i:end]

		resp, err := e.client.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: batch,
			},
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", i, end, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embed batch %d-%d: got %d embeddings for %d texts",
				i, end, len(resp.Data), len(batch))
		}

		for _, data := range resp.Data {
			allVectors = append(allVectors, toFloat32(data.Embedding))
		}
	}

	return allVectors, nil
}

// toFloat32 converts []float64 to []float32. The API returns float64, but
// storage uses float32 for memory efficiency.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
