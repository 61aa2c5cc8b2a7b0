package markdown

import (
	"strings"
	"testing"
)

func TestSplitBasicHeaders(t *testing.T) {
	input := `# Getting Started

Introduction text here.

## Installation

Install steps here.

## Configuration

Config details here.
`

	sections, err := NewSplitter().Split([]byte(input))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	wantPaths := []string{
		"# Getting Started",
		"# Getting Started > ## Installation",
		"# Getting Started > ## Configuration",
	}
	if len(sections) != len(wantPaths) {
		t.Fatalf("expected %d sections, got %d", len(wantPaths), len(sections))
	}
	for i, want := range wantPaths {
		if sections[i].Path != want {
			t.Errorf("section %d path = %q, want %q", i, sections[i].Path, want)
		}
		if sections[i].Index != i {
			t.Errorf("section %d index = %d", i, sections[i].Index)
		}
	}

	if !strings.Contains(sections[0].Body, "Introduction text here") {
		t.Error("first section missing its content")
	}
	if !strings.Contains(sections[1].Body, "Install steps here") {
		t.Error("installation section missing its content")
	}
	if strings.Contains(sections[0].Body, "Install steps here") {
		t.Error("first section should stop at the next H2")
	}
}

func TestSplitKeepsDeepHeadingsInline(t *testing.T) {
	input := `# API Reference

Overview of the API.

## Methods

Available methods:

` + "```go" + `
func DoSomething() error {
    return nil
}
` + "```" + `

### Details

Some details here.

- List item 1
- List item 2
`

	sections, err := NewSplitter().Split([]byte(input))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	// H3 is not a boundary, so only the H1 and H2 sections exist.
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	methods := sections[1]
	if !strings.Contains(methods.Body, "func DoSomething()") {
		t.Error("methods section missing code block")
	}
	if !strings.Contains(methods.Body, "### Details") {
		t.Error("methods section should contain the H3 subsection")
	}
	if !strings.Contains(methods.Body, "List item 1") {
		t.Error("methods section missing list content")
	}
}

func TestSplitNoHeaders(t *testing.T) {
	input := `This is a document with no headers.

Just plain text content.
`

	sections, err := NewSplitter().Split([]byte(input))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Path != "" {
		t.Errorf("expected empty path, got %q", sections[0].Path)
	}
	if !strings.Contains(sections[0].Body, "This is a document") {
		t.Error("section missing document content")
	}
}

func TestSplitMultipleTopLevel(t *testing.T) {
	input := `# First Section

First content.

## First Subsection

First subsection content.

# Second Section

Second content.
`

	sections, err := NewSplitter().Split([]byte(input))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	wantPaths := []string{
		"# First Section",
		"# First Section > ## First Subsection",
		"# Second Section",
	}
	if len(sections) != len(wantPaths) {
		t.Fatalf("expected %d sections, got %d", len(wantPaths), len(sections))
	}
	for i, want := range wantPaths {
		if sections[i].Path != want {
			t.Errorf("section %d path = %q, want %q", i, sections[i].Path, want)
		}
	}

	// The subsection ends where the second H1 begins.
	if strings.Contains(sections[1].Body, "Second content") {
		t.Error("subsection leaked into the next top-level section")
	}
}

func TestSectionText(t *testing.T) {
	s := Section{Path: "# Title > ## Part", Body: "## Part\n\nBody text."}
	got := s.Text()
	if !strings.HasPrefix(got, "# Title > ## Part\n\n") {
		t.Errorf("Text() should prefix the header path, got %q", got)
	}

	plain := Section{Body: "no headers here"}
	if plain.Text() != "no headers here" {
		t.Errorf("Text() without path should return body unchanged, got %q", plain.Text())
	}
}
