// Package storage implements the search index on Qdrant: chunk records
// with dense vectors plus payload fields for keyword matching and
// filtering. All index semantics (ranking, fusion, persistence) belong to
// Qdrant; this package only shapes requests and responses.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const upsertBatchSize = 100

// QdrantStorage wraps the Qdrant client with connection management and the
// chunk-record schema.
type QdrantStorage struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStorage connects to Qdrant and verifies it is reachable. The
// health probe retries with exponential backoff so a service that is still
// starting does not fail the process; individual operations after startup
// are never retried.
func NewQdrantStorage(host string, port int, collection string) (*QdrantStorage, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	s := &QdrantStorage{
		client:     client,
		collection: collection,
	}

	if err := s.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return s, nil
}

func (s *QdrantStorage) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check against Qdrant.
func (s *QdrantStorage) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// EnsureCollection creates the chunk collection and its payload indexes if
// they do not exist yet. Idempotent: calling it against an existing
// collection leaves the data untouched.
func (s *QdrantStorage) EnsureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range collections {
		if name == s.collection {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			"content": {
				Size:     VectorDimension,
				Distance: qdrant.Distance_Cosine,
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	if err := s.createPayloadIndexes(ctx); err != nil {
		return fmt.Errorf("create payload indexes: %w", err)
	}
	return nil
}

// createPayloadIndexes sets up a full-text index on content (the keyword
// half of hybrid search) and a keyword index on source for filtering.
func (s *QdrantStorage) createPayloadIndexes(ctx context.Context) error {
	_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      "content",
		FieldType:      qdrant.FieldType_FieldTypeText.Enum(),
	})
	if err != nil {
		return fmt.Errorf("text index on content: %w", err)
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      "source",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("keyword index on source: %w", err)
	}
	return nil
}

// Reset deletes the collection and recreates it empty.
func (s *QdrantStorage) Reset(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return s.EnsureCollection(ctx)
}

// Close closes the Qdrant client connection.
func (s *QdrantStorage) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// pointID derives a Qdrant point id from the stable chunk id. Qdrant point
// ids must be UUIDs, so the chunk id is hashed into a UUIDv5; the mapping
// is deterministic, which preserves upsert semantics on re-ingestion.
func pointID(chunkID string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String())
}

// UpsertChunks stores chunk records in fixed-size sequential batches.
// A failing batch is counted against the result and the remaining batches
// still run; the call errors only when every batch failed.
func (s *QdrantStorage) UpsertChunks(ctx context.Context, records []ChunkRecord) (UpsertResult, error) {
	var result UpsertResult
	if len(records) == 0 {
		return result, nil
	}

	for i, rec := range records {
		if len(rec.Embedding) != VectorDimension {
			return result, fmt.Errorf("%w: record %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(rec.Embedding), VectorDimension)
		}
	}

	var lastErr error
	for start := 0; start < len(records); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(records))
		batch := records[start:end]

		points := make([]*qdrant.PointStruct, len(batch))
		for j, rec := range batch {
			points[j] = &qdrant.PointStruct{
				Id: pointID(rec.ID),
				Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
					"content": qdrant.NewVector(rec.Embedding...),
				}),
				Payload: qdrant.NewValueMap(map[string]any{
					"id":          rec.ID,
					"content":     rec.Content,
					"source":      rec.Source,
					"page":        rec.Page,
					"chunk_index": rec.ChunkIndex,
				}),
			}
		}

		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         points,
		})
		if err != nil {
			result.Failed += len(batch)
			lastErr = fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
			continue
		}
		result.Indexed += len(batch)
	}

	if result.Indexed == 0 && lastErr != nil {
		return result, fmt.Errorf("%w: %v", ErrAllBatchesFailed, lastErr)
	}
	return result, nil
}

// HybridSearch runs keyword and vector retrieval in one query: a dense
// similarity branch and a dense branch restricted to points whose content
// matches the query text, fused with reciprocal rank fusion. An optional
// sourceFilter limits results to a single document.
func (s *QdrantStorage) HybridSearch(ctx context.Context, queryText string, queryVector []float32, topK int, sourceFilter string) ([]SearchResult, error) {
	if len(queryVector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(queryVector), VectorDimension)
	}

	var baseFilter *qdrant.Filter
	if sourceFilter != "" {
		baseFilter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("source", sourceFilter)},
		}
	}

	keywordFilter := &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatchText("content", queryText)},
	}
	if sourceFilter != "" {
		keywordFilter.Must = append(keywordFilter.Must, qdrant.NewMatch("source", sourceFilter))
	}

	vectorName := "content"
	prefetchLimit := uint64(topK * 3)

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Prefetch: []*qdrant.PrefetchQuery{
			{
				Query:  qdrant.NewQuery(queryVector...),
				Using:  &vectorName,
				Filter: baseFilter,
				Limit:  &prefetchLimit,
			},
			{
				Query:  qdrant.NewQuery(queryVector...),
				Using:  &vectorName,
				Filter: keywordFilter,
				Limit:  &prefetchLimit,
			},
		},
		Query:       qdrant.NewQueryFusion(qdrant.Fusion_RRF),
		Limit:       qdrant.PtrOf(uint64(topK)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	return resultsFromPoints(results), nil
}

// VectorSearch runs pure dense similarity retrieval, useful when query
// wording differs entirely from the documents.
func (s *QdrantStorage) VectorSearch(ctx context.Context, queryVector []float32, topK int, sourceFilter string) ([]SearchResult, error) {
	if len(queryVector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(queryVector), VectorDimension)
	}

	var filter *qdrant.Filter
	if sourceFilter != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("source", sourceFilter)},
		}
	}

	vectorName := "content"
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Using:          &vectorName,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	return resultsFromPoints(results), nil
}

func resultsFromPoints(points []*qdrant.ScoredPoint) []SearchResult {
	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, SearchResult{
			ID:      payload["id"].GetStringValue(),
			Content: payload["content"].GetStringValue(),
			Source:  payload["source"].GetStringValue(),
			Page:    int(payload["page"].GetIntegerValue()),
			Score:   float64(point.Score),
		})
	}
	return results
}

// GetStats reports the point count and estimated storage footprint of the
// collection. A missing collection reads as empty rather than an error so
// status displays work before setup has run.
func (s *QdrantStorage) GetStats(ctx context.Context) (Stats, error) {
	collection, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return Stats{}, nil
	}

	count := collection.GetPointsCount()
	return Stats{
		DocumentCount: count,
		StorageBytes:  count * VectorDimension * 4,
	}, nil
}
