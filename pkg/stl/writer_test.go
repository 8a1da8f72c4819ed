package stl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gocad/pkg/geometry"
)

func sampleModel() *Model {
	return FromTriangles("sample", []geometry.Triangle{
		geometry.TriangleFromVertices(
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(0, 1, 0),
		),
		geometry.TriangleFromVertices(
			geometry.NewVector3(0, 0, 1),
			geometry.NewVector3(1, 0, 1),
			geometry.NewVector3(0, 1, 1),
		),
	})
}

func TestWriteBinaryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	model := sampleModel()

	if err := Write(path, model); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	parsed, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.TriangleCount() != 2 {
		t.Errorf("triangle count: expected 2, got %d", parsed.TriangleCount())
	}
	if parsed.Triangles[0].V2.X != 1 {
		t.Errorf("vertex mismatch: %v", parsed.Triangles[0].V2)
	}
}

func TestWriteASCIIRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	model := sampleModel()
	if err := WriteASCII(file, model); err != nil {
		t.Fatalf("WriteASCII failed: %v", err)
	}
	file.Close()

	parsed, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Name != "sample" {
		t.Errorf("name: expected %q, got %q", "sample", parsed.Name)
	}
	if parsed.TriangleCount() != 2 {
		t.Errorf("triangle count: expected 2, got %d", parsed.TriangleCount())
	}
}
