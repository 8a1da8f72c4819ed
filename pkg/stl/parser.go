package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// Parse reads an STL file and returns its triangle soup. The format is
// detected from the leading bytes: ASCII files start with the "solid"
// keyword, everything else is treated as binary.
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	probe := make([]byte, 5)
	n, err := file.Read(probe)
	if err != nil {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	if n == 5 && string(probe) == "solid" {
		return parseASCII(file)
	}
	return parseBinary(file)
}

// parseASCII reads the solid/facet/vertex keyword format produced by
// WriteASCII. A facet is kept once its endfacet arrives with exactly three
// vertices collected.
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var normal geometry.Vector3
	var vertices []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet", line)
			}
			v, err := parseCoords(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			normal = v

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: malformed vertex", line)
			}
			v, err := parseCoords(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				model.AddTriangle(geometry.NewTriangle(normal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ASCII STL: %w", err)
	}
	return model, nil
}

// parseCoords converts three decimal fields into a vector.
func parseCoords(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("bad coordinate %q", field)
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// parseBinary reads the fixed little-endian layout written by WriteBinary:
// an 80-byte name header, a uint32 count, then per triangle twelve
// float32s (normal and three vertices) and a uint16 attribute.
func parseBinary(reader io.Reader) (*Model, error) {
	model := NewModel("")

	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	model.Name = string(bytes.TrimRight(header, "\x00"))

	var count uint32
	if err := binary.Read(reader, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		var record [12]float32
		if err := binary.Read(reader, binary.LittleEndian, &record); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		var attribute uint16
		if err := binary.Read(reader, binary.LittleEndian, &attribute); err != nil {
			return nil, fmt.Errorf("failed to read attribute for triangle %d: %w", i, err)
		}

		model.AddTriangle(geometry.NewTriangle(
			recordVector(record, 0),
			recordVector(record, 3),
			recordVector(record, 6),
			recordVector(record, 9),
		))
	}
	return model, nil
}

// recordVector lifts three consecutive record floats into a vector.
func recordVector(record [12]float32, at int) geometry.Vector3 {
	return geometry.NewVector3(float64(record[at]), float64(record[at+1]), float64(record[at+2]))
}
