package chunker

import (
	"strings"
	"testing"
)

// TestSplitText_ParagraphPerChunk verifies that paragraphs too large to
// share a budget each become their own chunk, in input order.
func TestSplitText_ParagraphPerChunk(t *testing.T) {
	input := "Para one.\n\nPara two.\n\nPara three."

	chunks := SplitText(input, 15, 0)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	want := []string{"Para one.", "Para two.", "Para three."}
	for i, w := range want {
		if chunks[i] != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i])
		}
	}
}

// TestSplitText_MergesSmallParagraphs verifies the greedy merge: paragraphs
// that fit the budget together are joined by a paragraph break.
func TestSplitText_MergesSmallParagraphs(t *testing.T) {
	input := "Para one.\n\nPara two.\n\nPara three."

	chunks := SplitText(input, 100, 0)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 merged chunk, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "Para one.\n\nPara two.\n\nPara three." {
		t.Errorf("unexpected merged content: %q", chunks[0])
	}
}

// TestSplitText_LongParagraphSentenceSplit verifies that a paragraph over
// budget is split into sentences and re-merged under the size bound.
func TestSplitText_LongParagraphSentenceSplit(t *testing.T) {
	sentence := "This sentence is about sixty characters long, give or take. "
	input := strings.TrimSpace(strings.Repeat(sentence, 10)) // ~600 chars, one paragraph

	chunks := SplitText(input, 500, 0)

	if len(chunks) < 2 {
		t.Fatalf("expected paragraph to split into multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 500 {
			t.Errorf("chunk %d exceeds budget: %d runes", i, n)
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty after trimming", i)
		}
	}
}

// TestSplitText_OversizedSentenceStandsAlone verifies that a single
// sentence longer than the budget is emitted whole, never truncated.
func TestSplitText_OversizedSentenceStandsAlone(t *testing.T) {
	huge := strings.Repeat("x", 200) // no terminal punctuation, indivisible
	input := "Short lead-in.\n\n" + huge + "\n\nShort tail."

	chunks := SplitText(input, 50, 0)

	found := false
	for _, c := range chunks {
		if c == huge {
			found = true
		}
	}
	if !found {
		t.Fatalf("oversized sentence not emitted verbatim; chunks: %q", chunks)
	}
}

// TestSplitText_Overlap verifies that the tail of a closed chunk seeds the
// start of the next one.
func TestSplitText_Overlap(t *testing.T) {
	sentence := "Sentences made from letters fill paragraphs with usable text. "
	input := strings.TrimSpace(strings.Repeat(sentence, 8))

	chunks := SplitText(input, 200, 50)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		// Chunks are whitespace-trimmed on emission, so a tail that starts
		// mid-whitespace loses its leading space in the next chunk.
		tail := strings.TrimSpace(string(prev[len(prev)-50:]))
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's 50-rune tail\ntail: %q\nchunk: %q",
				i, tail, chunks[i])
		}
	}
}

// TestSplitText_EmptyInput verifies empty and whitespace-only inputs yield
// no chunks and no error.
func TestSplitText_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n", " \t \n "} {
		if chunks := SplitText(input, 100, 10); len(chunks) != 0 {
			t.Errorf("input %q: expected no chunks, got %q", input, chunks)
		}
	}
}

// TestSplitText_NoDataLoss verifies that with zero overlap, the chunks
// reconstruct all non-whitespace content of the input.
func TestSplitText_NoDataLoss(t *testing.T) {
	input := "First paragraph with words.\n\nSecond one is a bit longer and has two sentences. Here is the second.\n\nThird paragraph closes the document."

	chunks := SplitText(input, 60, 0)

	squash := func(s string) string {
		return strings.Join(strings.Fields(s), "")
	}
	if squash(strings.Join(chunks, " ")) != squash(input) {
		t.Errorf("content lost or altered:\ninput:  %q\nchunks: %q", input, chunks)
	}
}

// TestSplitText_Deterministic verifies identical inputs produce identical
// output across calls.
func TestSplitText_Deterministic(t *testing.T) {
	input := "Alpha beta gamma. Delta epsilon zeta.\n\nEta theta iota kappa lambda mu."

	a := SplitText(input, 40, 10)
	b := SplitText(input, 40, 10)

	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between calls", i)
		}
	}
}

// TestSplitText_MultiByteOverlap verifies overlap slicing never cuts a
// multi-byte character.
func TestSplitText_MultiByteOverlap(t *testing.T) {
	sentence := "Unicode text like éàü and 日本語 must survive slicing intact. "
	input := strings.TrimSpace(strings.Repeat(sentence, 8))

	chunks := SplitText(input, 150, 30)

	for i, c := range chunks {
		if !strings.ContainsRune(c, '�') {
			continue
		}
		t.Errorf("chunk %d contains a replacement character: %q", i, c)
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	a := ChunkID("doc.pdf", 3, 7, "some chunk content here")
	b := ChunkID("doc.pdf", 3, 7, "some chunk content here")
	if a != b {
		t.Errorf("identical inputs produced different ids: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16-char id, got %d chars", len(a))
	}
}

func TestChunkID_SensitiveToFields(t *testing.T) {
	base := ChunkID("doc.pdf", 3, 7, "content")

	variants := []string{
		ChunkID("other.pdf", 3, 7, "content"),
		ChunkID("doc.pdf", 4, 7, "content"),
		ChunkID("doc.pdf", 3, 8, "content"),
		ChunkID("doc.pdf", 3, 7, "different"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base id", i)
		}
	}
}

// TestChunkID_PrefixOnly verifies only the first 100 runes of content
// participate in the id, matching the stable-id contract.
func TestChunkID_PrefixOnly(t *testing.T) {
	prefix := strings.Repeat("a", 100)
	a := ChunkID("doc.txt", 0, 0, prefix+"tail one")
	b := ChunkID("doc.txt", 0, 0, prefix+"completely different tail")
	if a != b {
		t.Error("ids should match when the first 100 runes are identical")
	}
}

func TestBuild_AssignsMetadata(t *testing.T) {
	chunks := Build("notes.txt", 0, "First paragraph.\n\nSecond paragraph.", 4, 10, 0)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Source != "notes.txt" {
			t.Errorf("chunk %d source: got %q", i, c.Source)
		}
		if c.Page != 0 {
			t.Errorf("chunk %d page: got %d", i, c.Page)
		}
		if c.Index != 4+i {
			t.Errorf("chunk %d index: expected %d, got %d", i, 4+i, c.Index)
		}
		if c.ID != ChunkID(c.Source, c.Page, c.Index, c.Content) {
			t.Errorf("chunk %d id does not match its fields", i)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One two. Three four! Five six? Seven")

	want := []string{"One two.", "Three four!", "Five six?", "Seven"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// TestSplitSentences_NoBoundary verifies text without terminal punctuation
// followed by whitespace comes back unchanged.
func TestSplitSentences_NoBoundary(t *testing.T) {
	in := "version 1.2.3 has no sentence boundary"
	got := splitSentences(in)
	if len(got) != 1 || got[0] != in {
		t.Errorf("expected single sentence %q, got %q", in, got)
	}
}
