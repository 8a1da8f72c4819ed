package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Write saves a model to a file, choosing the format by extension-agnostic
// default: binary, the compact interchange format.
func Write(filename string, model *Model) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteBinary(file, model)
}

// WriteBinary writes a model in binary STL format
func WriteBinary(w io.Writer, model *Model) error {
	// 80-byte header carrying the model name
	header := make([]byte, 80)
	copy(header, model.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, triangle := range model.Triangles {
		record := [12]float32{
			float32(triangle.Normal.X), float32(triangle.Normal.Y), float32(triangle.Normal.Z),
			float32(triangle.V1.X), float32(triangle.V1.Y), float32(triangle.V1.Z),
			float32(triangle.V2.X), float32(triangle.V2.Y), float32(triangle.V2.Z),
			float32(triangle.V3.X), float32(triangle.V3.Y), float32(triangle.V3.Z),
		}
		if err := binary.Write(w, binary.LittleEndian, record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
		// Attribute byte count, unused but required by the format
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write attribute for triangle %d: %w", i, err)
		}
	}
	return nil
}

// WriteASCII writes a model in ASCII STL format
func WriteASCII(w io.Writer, model *Model) error {
	bw := bufio.NewWriter(w)

	name := model.Name
	if name == "" {
		name = "model"
	}
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range model.Triangles {
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.V1.X, t.V1.Y, t.V1.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.V2.X, t.V2.Y, t.V2.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.V3.X, t.V3.Y, t.V3.Z)
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}
