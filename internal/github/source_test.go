package github

import "testing"

func TestParseRepoSpec(t *testing.T) {
	tests := []struct {
		spec              string
		owner, repo, root string
		wantErr           bool
	}{
		{spec: "golang/go", owner: "golang", repo: "go"},
		{spec: "golang/go/doc", owner: "golang", repo: "go", root: "doc"},
		{spec: "golang/go/doc/design", owner: "golang", repo: "go", root: "doc/design"},
		{spec: "/golang/go/", owner: "golang", repo: "go"},
		{spec: "golang", wantErr: true},
		{spec: "", wantErr: true},
		{spec: "/repo", wantErr: true},
	}

	for _, tt := range tests {
		owner, repo, root, err := ParseRepoSpec(tt.spec)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepoSpec(%q) expected error", tt.spec)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoSpec(%q) failed: %v", tt.spec, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo || root != tt.root {
			t.Errorf("ParseRepoSpec(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.spec, owner, repo, root, tt.owner, tt.repo, tt.root)
		}
	}
}

func TestSourceName(t *testing.T) {
	s := NewSource(nil, "golang", "go", "doc")
	if got := s.Name(); got != "github.com/golang/go/doc" {
		t.Errorf("Name() = %q", got)
	}

	s = NewSource(nil, "golang", "go", "")
	if got := s.Name(); got != "github.com/golang/go" {
		t.Errorf("Name() = %q", got)
	}
}

func TestIsMarkdown(t *testing.T) {
	for name, want := range map[string]bool{
		"README.md":      true,
		"guide.markdown": true,
		"NOTES.MD":       true,
		"main.go":        false,
		"md":             false,
	} {
		if got := isMarkdown(name); got != want {
			t.Errorf("isMarkdown(%q) = %v, want %v", name, got, want)
		}
	}
}
