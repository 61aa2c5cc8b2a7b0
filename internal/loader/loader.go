// Package loader extracts raw text from document files. Each supported
// format yields an ordered list of sections ready for chunking; the loader
// itself never splits or alters text beyond whitespace trimming.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat marks a file extension the loader does not
	// handle. Callers walking a directory should skip and continue.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoText marks a file from which no text could be extracted.
	ErrNoText = errors.New("no extractable text")
)

// Section is one extractable unit of a document: a whole text file, a DOCX
// body, or a single PDF page.
type Section struct {
	Text string
	Page int // 1-based for PDFs, 0 for non-paginated formats
}

// SupportedExtensions lists the file extensions Load understands.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".pdf":      true,
	".docx":     true,
}

// Load extracts text sections from the file at path. Unknown extensions
// return ErrUnsupportedFormat; files that parse but hold no text return
// ErrNoText. Both are soft conditions for directory-level ingestion.
func Load(path string) ([]Section, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return loadTextFile(path)
	case ".pdf":
		return loadPDF(path)
	case ".docx":
		return loadDOCX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ListSupported returns the supported files directly inside dir, sorted by
// name for deterministic ingestion order.
func ListSupported(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if SupportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func loadTextFile(path string) ([]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoText, filepath.Base(path))
	}
	return []Section{{Text: text, Page: 0}}, nil
}

// loadPDF extracts one section per page. Pages without extractable text are
// skipped silently; page numbers are 1-based as a reader would expect.
func loadPDF(path string) ([]Section, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sections []Section
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip pages that fail extraction, keep the rest
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		sections = append(sections, Section{Text: text, Page: i})
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoText, filepath.Base(path))
	}
	return sections, nil
}

// loadDOCX concatenates all non-empty paragraphs into a single section,
// separated by blank lines so the chunker sees paragraph boundaries.
func loadDOCX(path string) ([]Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var buf bytes.Buffer
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := strings.TrimSpace(para.String())
		if text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoText, filepath.Base(path))
	}
	return []Section{{Text: buf.String(), Page: 0}}, nil
}
