package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
)

// RemoteDoc is a markdown file fetched from a repository.
type RemoteDoc struct {
	Path    string // path relative to the source root
	Content string // full markdown text
	SHA     string // Git blob SHA
	URL     string // raw.githubusercontent.com URL
}

// Source reads markdown files from one directory tree of one repository.
type Source struct {
	client *Client
	owner  string
	repo   string
	root   string
}

// NewSource creates a Source rooted at the given path within owner/repo.
// An empty root means the repository root.
func NewSource(client *Client, owner, repo, root string) *Source {
	return &Source{client: client, owner: owner, repo: repo, root: root}
}

// ParseRepoSpec splits "owner/repo" or "owner/repo/sub/dir" into its parts.
func ParseRepoSpec(spec string) (owner, repo, root string, err error) {
	parts := strings.SplitN(strings.Trim(spec, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("invalid repository %q, want owner/repo[/path]", spec)
	}
	owner, repo = parts[0], parts[1]
	if len(parts) == 3 {
		root = parts[2]
	}
	return owner, repo, root, nil
}

// Name identifies the source in chunk metadata, e.g. "github.com/owner/repo/docs".
func (s *Source) Name() string {
	if s.root == "" {
		return fmt.Sprintf("github.com/%s/%s", s.owner, s.repo)
	}
	return fmt.Sprintf("github.com/%s/%s/%s", s.owner, s.repo, s.root)
}

// ListMarkdown walks the source tree and returns the relative paths of all
// markdown files.
func (s *Source) ListMarkdown(ctx context.Context) ([]string, error) {
	return s.walk(ctx, s.root, "")
}

func (s *Source) walk(ctx context.Context, fullPath, relPath string) ([]string, error) {
	_, entries, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, fullPath, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", fullPath, err)
	}

	var docs []string
	for _, entry := range entries {
		if entry.Type == nil || entry.Name == nil {
			continue
		}
		rel := path.Join(relPath, *entry.Name)
		switch *entry.Type {
		case "file":
			if isMarkdown(*entry.Name) {
				docs = append(docs, rel)
			}
		case "dir":
			sub, err := s.walk(ctx, path.Join(fullPath, *entry.Name), rel)
			if err != nil {
				return nil, err
			}
			docs = append(docs, sub...)
		}
	}
	return docs, nil
}

// Fetch downloads one markdown file by its relative path.
func (s *Source) Fetch(ctx context.Context, relPath string) (*RemoteDoc, error) {
	fullPath := path.Join(s.root, relPath)

	file, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, fullPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", fullPath, err)
	}
	if file == nil || file.Content == nil {
		return nil, fmt.Errorf("no file content for %s", fullPath)
	}

	raw, err := base64.StdEncoding.DecodeString(*file.Content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", fullPath, err)
	}

	doc := &RemoteDoc{
		Path:    relPath,
		Content: string(raw),
		URL:     fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/main/%s", s.owner, s.repo, fullPath),
	}
	if file.SHA != nil {
		doc.SHA = *file.SHA
	}
	return doc, nil
}

// FetchAll lists and downloads every markdown file under the source root,
// in listing order.
func (s *Source) FetchAll(ctx context.Context) ([]*RemoteDoc, error) {
	paths, err := s.ListMarkdown(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*RemoteDoc, 0, len(paths))
	for _, p := range paths {
		doc, err := s.Fetch(ctx, p)
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func isMarkdown(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}
