package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/docrag/internal/pipeline"
)

// makeAskHandler creates the ask_docs tool handler. Retrieval and
// generation both run through the pipeline, so the no-results answer and
// context formatting match the CLI exactly.
func makeAskHandler(p *pipeline.Pipeline) func(
	context.Context, *mcp.CallToolRequest, AskDocsInput,
) (*mcp.CallToolResult, AskDocsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskDocsInput) (
		*mcp.CallToolResult, AskDocsOutput, error,
	) {
		result, err := p.Query(ctx, input.Question, input.TopK, input.Source)
		if err != nil {
			return nil, AskDocsOutput{}, fmt.Errorf("answer question: %w", err)
		}

		// Non-nil so clients always see a sources array.
		sources := make([]SourceRef, 0, len(result.Sources))
		for _, s := range result.Sources {
			sources = append(sources, SourceRef{
				Source: s.Source,
				Page:   s.Page,
				Score:  s.Score,
			})
		}

		return nil, AskDocsOutput{
			Answer:  result.Answer,
			Sources: sources,
		}, nil
	}
}

// makeSearchHandler creates the search_docs tool handler.
func makeSearchHandler(p *pipeline.Pipeline) func(
	context.Context, *mcp.CallToolRequest, SearchDocsInput,
) (*mcp.CallToolResult, SearchDocsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (
		*mcp.CallToolResult, SearchDocsOutput, error,
	) {
		results, err := p.SearchOnly(ctx, input.Query, input.TopK, input.Source)
		if err != nil {
			return nil, SearchDocsOutput{}, fmt.Errorf("search: %w", err)
		}

		if len(results) == 0 {
			return nil, SearchDocsOutput{
				Results: []ChunkResult{},
				Message: "No matching chunks found. Try broader search terms.",
			}, nil
		}

		chunks := make([]ChunkResult, 0, len(results))
		for _, r := range results {
			chunks = append(chunks, ChunkResult{
				Content: r.Content,
				Source:  r.Source,
				Page:    r.Page,
				Score:   r.Score,
			})
		}
		return nil, SearchDocsOutput{Results: chunks}, nil
	}
}

// makeStatusHandler creates the get_index_status tool handler.
func makeStatusHandler(p *pipeline.Pipeline, collection string) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		stats, err := p.Stats(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("get index stats: %w", err)
		}

		return nil, StatusOutput{
			Collection:   collection,
			Chunks:       stats.DocumentCount,
			StorageBytes: stats.StorageBytes,
		}, nil
	}
}
