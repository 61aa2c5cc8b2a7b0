package storage

// ChunkRecord is the unit stored in the search index: chunk text, its
// indexing metadata and the embedding vector.
type ChunkRecord struct {
	ID         string // stable chunk id (see chunker.ChunkID)
	Content    string
	Source     string // originating filename or path
	Page       int    // 0 for non-paginated formats
	ChunkIndex int    // ordinal within the source document
	Embedding  []float32
}

// SearchResult is one ranked hit from a hybrid query. Score is the fused
// ranking signal from the search engine; treat it as opaque, it is not a
// probability.
type SearchResult struct {
	ID      string
	Content string
	Source  string
	Page    int
	Score   float64
}

// UpsertResult reports success and failure counts from a batched upsert.
type UpsertResult struct {
	Indexed int
	Failed  int
}

// Stats describes the current state of the index.
type Stats struct {
	DocumentCount uint64
	// StorageBytes is the raw dense-vector footprint (points * dims * 4).
	// Qdrant does not report on-disk size over gRPC, so this is an
	// estimate, not an exact figure.
	StorageBytes uint64
}

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
