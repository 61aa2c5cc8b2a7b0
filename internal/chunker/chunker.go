// Package chunker splits document text into bounded, overlapping segments
// ready for embedding. Splitting is recursive: paragraphs first, sentences
// for oversized paragraphs, then a greedy merge back up to the size budget.
// Everything here is pure and deterministic.
package chunker

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// Chunk is a bounded segment of document text with its indexing metadata.
type Chunk struct {
	ID      string // stable hash of source, page, ordinal and content prefix
	Content string
	Source  string // originating filename or path
	Page    int    // 0 for non-paginated formats
	Index   int    // ordinal within the source document
}

// SplitText splits text into segments of at most chunkSize runes, with
// chunkOverlap trailing runes of each segment repeated at the start of the
// next. A single sentence longer than chunkSize is emitted whole rather
// than cut mid-sentence, so the bound is best-effort for indivisible units.
// Empty or whitespace-only input yields no segments.
//
// Sizes are measured in runes, and overlap slicing is rune-aligned, so a
// multi-byte character is never split. chunkOverlap >= chunkSize is
// accepted but lets overlap text dominate buffer growth; callers own that
// trade-off.
func SplitText(text string, chunkSize, chunkOverlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Stage 1: paragraphs on blank-line boundaries.
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	// Stage 2: sentence-split any paragraph over budget.
	var pieces []string
	for _, para := range paragraphs {
		if runeLen(para) > chunkSize {
			pieces = append(pieces, splitSentences(para)...)
		} else {
			pieces = append(pieces, para)
		}
	}

	// Stage 3: greedy merge with overlap carry-over.
	var chunks []string
	var current string

	for _, piece := range pieces {
		if runeLen(current)+runeLen(piece) > chunkSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))

			if chunkOverlap > 0 {
				current = tailRunes(current, chunkOverlap) + "\n\n" + piece
			} else {
				current = piece
			}
			continue
		}

		if current != "" {
			current += "\n\n" + piece
		} else {
			current = piece
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}

// Build chunks one section of a document and assigns metadata and stable
// ids. startIndex is the ordinal of the first produced chunk, letting a
// caller keep a running counter across the sections of one source.
func Build(source string, page int, text string, startIndex, chunkSize, chunkOverlap int) []Chunk {
	segments := SplitText(text, chunkSize, chunkOverlap)

	chunks := make([]Chunk, 0, len(segments))
	for i, content := range segments {
		ordinal := startIndex + i
		chunks = append(chunks, Chunk{
			ID:      ChunkID(source, page, ordinal, content),
			Content: content,
			Source:  source,
			Page:    page,
			Index:   ordinal,
		})
	}
	return chunks
}

// ChunkID derives a stable identifier from the chunk's source, page,
// ordinal and leading content. Identical inputs always hash to the same id,
// which gives re-ingestion upsert semantics at the index store.
func ChunkID(source string, page, index int, content string) string {
	prefix := content
	if runeLen(prefix) > 100 {
		prefix = string([]rune(prefix)[:100])
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d:%d:%s", source, page, index, prefix)))
	return hex.EncodeToString(sum[:])[:16]
}

// splitSentences splits a paragraph after terminal punctuation (. ! ?)
// followed by whitespace. The punctuation stays with its sentence and the
// separating whitespace is dropped. Text without such a boundary comes back
// as a single sentence.
func splitSentences(para string) []string {
	runes := []rune(para)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				sentences = append(sentences, string(runes[start:i+1]))
				j := i + 1
				for j < len(runes) && unicode.IsSpace(runes[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func runeLen(s string) int {
	return len([]rune(s))
}

// tailRunes returns the last n runes of s, or all of s if shorter.
func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
