package blob

import "testing"

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"thesis.pdf":     "application/pdf",
		"notes.MD":       "text/markdown",
		"guide.markdown": "text/markdown",
		"readme.txt":     "text/plain",
		"report.docx":    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"archive.zip":    "application/octet-stream",
	}
	for path, want := range cases {
		if got := contentType(path); got != want {
			t.Errorf("contentType(%q) = %q, want %q", path, got, want)
		}
	}
}
