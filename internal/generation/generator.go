// Package generation produces natural-language answers from a question and
// retrieved context using the OpenAI chat completions API. The system
// prompt restricts the model to the supplied context to limit
// hallucination.
package generation

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
)

// DefaultModel is the chat model used unless configured otherwise.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You are a helpful assistant that answers questions based on the provided context.

Rules:
- ONLY use information from the context below to answer
- If the context doesn't contain the answer, say "I don't have enough information to answer this."
- Be concise and direct
- Cite which document/section the information comes from when possible`

// Generator wraps the chat completion API for grounded answering.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator with the given OpenAI client and model.
// An empty model selects DefaultModel.
func NewGenerator(client *openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		client: client,
		model:  model,
	}
}

// Complete generates an answer to the question using only the supplied
// context text.
func (g *Generator) Complete(ctx context.Context, question, contextText string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, g.params(question, contextText))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream is Complete with token streaming: fragments arrive in
// generation order through the returned AnswerStream. The caller may stop
// consuming at any point and should Close the stream when done.
func (g *Generator) CompleteStream(ctx context.Context, question, contextText string) *AnswerStream {
	stream := g.client.Chat.Completions.NewStreaming(ctx, g.params(question, contextText))
	return &AnswerStream{stream: stream}
}

func (g *Generator) params(question, contextText string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserMessage(question, contextText)),
		},
		Model:       openai.ChatModel(g.model),
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(1024),
	}
}

// buildUserMessage lays out the retrieved context ahead of the question so
// the model reads the evidence before the task.
func buildUserMessage(question, contextText string) string {
	return fmt.Sprintf("Context:\n%s\n\n---\n\nQuestion: %s\n\nAnswer:", contextText, question)
}

// AnswerStream yields answer fragments in arrival order. Usage mirrors
// bufio.Scanner: call Next until it returns false, read each fragment with
// Token, then check Err.
type AnswerStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
	token  string
}

// Next advances to the next non-empty fragment. It returns false when the
// stream is exhausted or failed.
func (s *AnswerStream) Next() bool {
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			s.token = chunk.Choices[0].Delta.Content
			return true
		}
	}
	return false
}

// Token returns the fragment read by the last successful call to Next.
func (s *AnswerStream) Token() string {
	return s.token
}

// Err returns the first error encountered by the stream, if any.
func (s *AnswerStream) Err() error {
	return s.stream.Err()
}

// Close releases the underlying connection. Safe to call after a partial
// read when the caller stops consuming early.
func (s *AnswerStream) Close() error {
	return s.stream.Close()
}
