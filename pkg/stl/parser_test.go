package stl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.stl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseASCIIName(t *testing.T) {
	path := writeTemp(t, `solid test part
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid test part
`)
	model, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if model.Name != "test part" {
		t.Errorf("name: expected %q, got %q", "test part", model.Name)
	}
	if model.TriangleCount() != 1 {
		t.Errorf("triangle count: expected 1, got %d", model.TriangleCount())
	}
}

func TestParseRejectsMalformedVertex(t *testing.T) {
	path := writeTemp(t, `solid bad
  facet normal 0 0 1
    outer loop
      vertex 0 zero 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid bad
`)
	_, err := Parse(path)
	if err == nil {
		t.Fatal("expected error for malformed vertex")
	}
	if !strings.Contains(err.Error(), "bad coordinate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseRejectsTruncatedBinary(t *testing.T) {
	// 80-byte header plus a count promising a triangle that never follows
	raw := make([]byte, 84)
	raw[80] = 1
	path := filepath.Join(t.TempDir(), "trunc.stl")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Parse(path)
	if err == nil {
		t.Fatal("expected error for truncated binary file")
	}
}
