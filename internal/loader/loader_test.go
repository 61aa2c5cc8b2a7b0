package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "First paragraph.\n\nSecond paragraph."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sections, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Text != content {
		t.Errorf("section text altered: %q", sections[0].Text)
	}
	if sections[0].Page != 0 {
		t.Errorf("expected page 0 for text file, got %d", sections[0].Page)
	}
}

func TestLoad_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	if err := os.WriteFile(path, []byte("# Title\n\nBody text."), 0o644); err != nil {
		t.Fatal(err)
	}

	sections, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_EmptyTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("   \n\n  "), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestListSupported(t *testing.T) {
	dir := t.TempDir()
	files := []string{"b.md", "a.txt", "skip.png", "c.pdf"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := ListSupported(dir)
	if err != nil {
		t.Fatalf("ListSupported failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "c.pdf"),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestListSupported_MissingDir(t *testing.T) {
	_, err := ListSupported(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
