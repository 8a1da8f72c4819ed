// Package analysis computes summary statistics over triangle meshes, used
// by the CLI to report on registry models and imported files.
package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// MeshStats summarizes a triangle mesh.
type MeshStats struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Analyze computes mesh statistics over a triangle list.
func Analyze(triangles []geometry.Triangle) *MeshStats {
	stats := &MeshStats{
		BoundingBox:   geometry.NewBoundingBox(),
		TriangleCount: len(triangles),
		MinEdgeLength: math.MaxFloat64,
	}

	totalLength := 0.0
	for _, triangle := range triangles {
		stats.BoundingBox.Extend(triangle.V1)
		stats.BoundingBox.Extend(triangle.V2)
		stats.BoundingBox.Extend(triangle.V3)
		stats.SurfaceArea += triangle.Area()

		for _, length := range triangle.EdgeLengths() {
			stats.EdgeCount++
			totalLength += length
			if length < stats.MinEdgeLength {
				stats.MinEdgeLength = length
			}
			if length > stats.MaxEdgeLength {
				stats.MaxEdgeLength = length
			}
		}
	}

	if stats.EdgeCount > 0 {
		stats.AvgEdgeLength = totalLength / float64(stats.EdgeCount)
		stats.Dimensions = stats.BoundingBox.Size()
	} else {
		stats.MinEdgeLength = 0
		stats.BoundingBox = geometry.BoundingBox{}
	}
	return stats
}

// FindNearestVertex returns the mesh vertex nearest to a given point.
func FindNearestVertex(triangles []geometry.Triangle, point geometry.Vector3) (geometry.Vector3, float64) {
	var nearest geometry.Vector3
	minDistance := math.MaxFloat64

	for _, triangle := range triangles {
		for _, vertex := range []geometry.Vector3{triangle.V1, triangle.V2, triangle.V3} {
			if distance := point.Distance(vertex); distance < minDistance {
				minDistance = distance
				nearest = vertex
			}
		}
	}
	return nearest, minDistance
}

// FormatVector formats a 3D vector for CLI output
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
