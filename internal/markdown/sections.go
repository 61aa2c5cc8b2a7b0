// Package markdown splits markdown documents into sections at H1 and H2
// boundaries, keeping the header hierarchy with each section so retrieval
// sees where its text came from.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// Section is a header-delimited slice of a markdown document.
type Section struct {
	Index int    // position in document order
	Path  string // header hierarchy, e.g. "# Install > ## Prerequisites"
	Body  string // section text, starting at the heading's title
}

// Text returns the body prefixed with the header path, the form handed to
// chunking and embedding. Sections without headers return the body as is.
func (s Section) Text() string {
	if s.Path == "" {
		return s.Body
	}
	return fmt.Sprintf("%s\n\n%s", s.Path, s.Body)
}

// Splitter parses markdown and cuts it at heading boundaries.
type Splitter struct {
	md goldmark.Markdown
}

// NewSplitter returns a Splitter. Heading IDs are auto-assigned so sections
// can be matched back to AST nodes.
func NewSplitter() *Splitter {
	return &Splitter{
		md: goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID())),
	}
}

// boundary is a heading that starts a section, in document order.
type boundary struct {
	path string
	node ast.Node
}

// Split cuts the document at every H1 and H2. Deeper headings stay inside
// their parent section. A document without headings comes back as one
// section with an empty path.
func (s *Splitter) Split(source []byte) ([]Section, error) {
	doc := s.md.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(2),
		toc.Compact(true),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect headings: %w", err)
	}

	bounds := collectBoundaries(doc, tree.Items, nil)
	if len(bounds) == 0 {
		return []Section{{Index: 0, Body: strings.TrimSpace(string(source))}}, nil
	}

	sections := make([]Section, 0, len(bounds))
	for i, b := range bounds {
		start := b.node.Lines().At(0).Start
		end := len(source)
		if i+1 < len(bounds) {
			end = bounds[i+1].node.Lines().At(0).Start
		}
		sections = append(sections, Section{
			Index: i,
			Path:  b.path,
			Body:  strings.TrimSpace(string(source[start:end])),
		})
	}
	return sections, nil
}

// collectBoundaries flattens the TOC tree pre-order, which matches document
// order, building the header path as it descends.
func collectBoundaries(doc ast.Node, items toc.Items, ancestors []string) []boundary {
	var bounds []boundary
	for _, item := range items {
		path := append(ancestors[:len(ancestors):len(ancestors)], string(item.Title))
		node := headingByID(doc, string(item.ID))
		if node != nil {
			bounds = append(bounds, boundary{path: joinPath(path), node: node})
		}
		if len(item.Items) > 0 {
			bounds = append(bounds, collectBoundaries(doc, item.Items, path)...)
		}
	}
	return bounds
}

// joinPath renders header titles with depth markers, so the first level
// gets "#", the second "##".
func joinPath(titles []string) string {
	parts := make([]string, len(titles))
	for i, title := range titles {
		parts[i] = fmt.Sprintf("%s %s", strings.Repeat("#", i+1), title)
	}
	return strings.Join(parts, " > ")
}

// headingByID finds the heading node carrying the given auto-assigned ID.
func headingByID(doc ast.Node, id string) ast.Node {
	var found ast.Node
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		if attr, ok := n.AttributeString("id"); ok {
			if b, ok := attr.([]byte); ok && string(b) == id {
				found = n
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}
