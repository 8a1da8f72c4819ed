// Package kernel defines the narrow geometry-kernel interface the CAD core
// consumes, plus a mesh-backed implementation. Geometry handles are opaque
// to callers and are replaced, never mutated, by every operation.
package kernel

import (
	"fmt"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// PrimitiveKind identifies a constructible shape. The 3D kinds produce
// solids, the 2D kinds produce planar sketches that can be extruded.
type PrimitiveKind string

const (
	// 3D solids
	Cube     PrimitiveKind = "cube"
	Box      PrimitiveKind = "box"
	Sphere   PrimitiveKind = "sphere"
	Cylinder PrimitiveKind = "cylinder"
	Cone     PrimitiveKind = "cone"

	// 2D sketch shapes
	Line      PrimitiveKind = "line"
	Rectangle PrimitiveKind = "rectangle"
	Circle    PrimitiveKind = "circle"
	Polygon   PrimitiveKind = "polygon"
)

// BooleanOp identifies a boolean combination of solids.
type BooleanOp string

const (
	Union     BooleanOp = "union"
	Intersect BooleanOp = "intersect"
	Subtract  BooleanOp = "subtract"
)

// TransformOp identifies a rigid or scaling transform.
type TransformOp string

const (
	Translate TransformOp = "translate"
	Rotate    TransformOp = "rotate"
	Scale     TransformOp = "scale"
)

// PrimitiveSpec carries the parameters for CreatePrimitive. Only the fields
// relevant to the requested kind are read.
type PrimitiveSpec struct {
	Kind      PrimitiveKind
	Size      float64 // cube edge length
	Width     float64 // box / rectangle X extent
	Depth     float64 // box / rectangle Y extent
	Height    float64 // box / cylinder / cone Z extent
	Radius    float64 // sphere / cylinder / cone / circle
	Segments  int     // tessellation resolution for round shapes
	Thickness float64 // line expansion width
	Points    []geometry.Vector3 // line / polygon vertices
}

// TransformSpec carries the parameters for Transform. Only the fields
// relevant to the requested op are read. Angle is in radians.
type TransformSpec struct {
	Offset  geometry.Vector3 // translate
	Axis    geometry.Vector3 // rotate
	Angle   float64          // rotate, radians
	Factors geometry.Vector3 // scale, per-axis
}

// Handle is an opaque reference to kernel-owned geometry. Dim reports the
// dimensionality: 2 for sketches, 3 for solids.
type Handle interface {
	Dim() int
}

// Kernel is the geometry collaborator consumed by the operation dispatch.
// All calls are synchronous and never mutate their input handles.
type Kernel interface {
	CreatePrimitive(spec PrimitiveSpec) (Handle, error)
	BooleanCombine(op BooleanOp, handles []Handle) (Handle, error)
	Transform(op TransformOp, spec TransformSpec, h Handle) (Handle, error)
	Extrude(height float64, h Handle) (Handle, error)
}

// TriangleImporter is an optional kernel capability for constructing a
// solid handle directly from a triangle mesh (e.g. an imported STL file).
type TriangleImporter interface {
	FromTriangles(triangles []geometry.Triangle) Handle
}

// Error is a kernel-level failure such as degenerate or unsupported input.
type Error struct {
	Op     string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("kernel %s: %s", e.Op, e.Reason)
}

func errf(op, format string, args ...any) *Error {
	return &Error{Op: op, Reason: fmt.Sprintf(format, args...)}
}
