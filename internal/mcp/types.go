// Package mcp exposes the document pipeline over the Model Context
// Protocol so agents can search and question the index directly.
package mcp

// AskDocsInput defines the input parameters for the ask_docs tool.
type AskDocsInput struct {
	// Question is the natural language question to answer.
	Question string `json:"question" jsonschema:"required,description=The question to answer from the indexed documents"`
	// TopK is how many chunks to retrieve as context.
	TopK int `json:"top_k,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Number of chunks to retrieve as context"`
	// Source restricts retrieval to a single source document.
	Source string `json:"source,omitempty" jsonschema:"description=Restrict retrieval to one source document"`
}

// AskDocsOutput contains the generated answer and its evidence.
type AskDocsOutput struct {
	// Answer is the generated answer, grounded in the sources below.
	Answer string `json:"answer"`
	// Sources lists the chunks the answer was built from.
	Sources []SourceRef `json:"sources"`
}

// SourceRef points at one retrieved chunk.
type SourceRef struct {
	// Source is the document the chunk came from.
	Source string `json:"source"`
	// Page is the 1-based page for paginated formats, 0 otherwise.
	Page int `json:"page"`
	// Score is the fused relevance score.
	Score float64 `json:"score"`
}

// SearchDocsInput defines the input parameters for the search_docs tool.
type SearchDocsInput struct {
	// Query is the search text.
	Query string `json:"query" jsonschema:"required,description=The search query"`
	// TopK is the maximum number of chunks to return.
	TopK int `json:"top_k,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Maximum number of chunks to return"`
	// Source restricts retrieval to a single source document.
	Source string `json:"source,omitempty" jsonschema:"description=Restrict retrieval to one source document"`
}

// SearchDocsOutput contains the matching chunks.
type SearchDocsOutput struct {
	// Results is the list of matching chunks, best first.
	Results []ChunkResult `json:"results"`
	// Message provides context when there are no results.
	Message string `json:"message,omitempty"`
}

// ChunkResult is a single retrieved chunk.
type ChunkResult struct {
	// Content is the chunk text.
	Content string `json:"content"`
	// Source is the document the chunk came from.
	Source string `json:"source"`
	// Page is the 1-based page for paginated formats, 0 otherwise.
	Page int `json:"page"`
	// Score is the fused relevance score.
	Score float64 `json:"score"`
}

// StatusInput defines the input for the get_index_status tool. The tool
// takes no parameters.
type StatusInput struct{}

// StatusOutput describes what the index currently holds.
type StatusOutput struct {
	// Collection is the Qdrant collection name.
	Collection string `json:"collection"`
	// Chunks is the number of indexed chunks.
	Chunks uint64 `json:"chunks"`
	// StorageBytes is the estimated vector storage size.
	StorageBytes uint64 `json:"storage_bytes"`
}
