package kernel

import (
	"github.com/philipparndt/gocad/pkg/geometry"
)

// defaultSegments is the tessellation resolution for round shapes when the
// caller does not specify one.
const defaultSegments = 32

// Mesh is a triangle-soup geometry kernel. It implements primitives,
// transforms, extrusion and n-ary union. Intersect and subtract need real
// CSG mathematics, which this kernel delegates to an external backend and
// therefore reports as errors.
type Mesh struct{}

// NewMesh creates a mesh kernel.
func NewMesh() *Mesh {
	return &Mesh{}
}

// SolidHandle is a 3D geometry handle backed by a triangle mesh.
type SolidHandle struct {
	triangles []geometry.Triangle
}

// Dim returns 3.
func (h *SolidHandle) Dim() int { return 3 }

// Triangles returns a copy of the mesh triangles.
func (h *SolidHandle) Triangles() []geometry.Triangle {
	out := make([]geometry.Triangle, len(h.triangles))
	copy(out, h.triangles)
	return out
}

// TriangleCount returns the number of triangles in the mesh.
func (h *SolidHandle) TriangleCount() int { return len(h.triangles) }

// SketchHandle is a 2D geometry handle backed by a closed planar outline.
type SketchHandle struct {
	outline []geometry.Vector3
}

// Dim returns 2.
func (h *SketchHandle) Dim() int { return 2 }

// Outline returns a copy of the closed outline points.
func (h *SketchHandle) Outline() []geometry.Vector3 {
	out := make([]geometry.Vector3, len(h.outline))
	copy(out, h.outline)
	return out
}

// FromTriangles constructs a solid handle from an existing triangle mesh.
func (m *Mesh) FromTriangles(triangles []geometry.Triangle) Handle {
	copied := make([]geometry.Triangle, len(triangles))
	copy(copied, triangles)
	return &SolidHandle{triangles: copied}
}

// CreatePrimitive tessellates the requested shape. 3D kinds return a
// SolidHandle, 2D kinds a SketchHandle.
func (m *Mesh) CreatePrimitive(spec PrimitiveSpec) (Handle, error) {
	segments := spec.Segments
	if segments <= 0 {
		segments = defaultSegments
	}

	switch spec.Kind {
	case Cube:
		if spec.Size <= 0 {
			return nil, errf("createPrimitive", "cube needs a positive size, got %g", spec.Size)
		}
		return &SolidHandle{triangles: buildBox(spec.Size, spec.Size, spec.Size)}, nil

	case Box:
		if spec.Width <= 0 || spec.Depth <= 0 || spec.Height <= 0 {
			return nil, errf("createPrimitive", "box needs positive width, depth and height")
		}
		return &SolidHandle{triangles: buildBox(spec.Width, spec.Depth, spec.Height)}, nil

	case Sphere:
		if spec.Radius <= 0 {
			return nil, errf("createPrimitive", "sphere needs a positive radius, got %g", spec.Radius)
		}
		return &SolidHandle{triangles: buildSphere(spec.Radius, segments)}, nil

	case Cylinder:
		if spec.Radius <= 0 || spec.Height <= 0 {
			return nil, errf("createPrimitive", "cylinder needs positive radius and height")
		}
		return &SolidHandle{triangles: buildCylinder(spec.Radius, spec.Radius, spec.Height, segments)}, nil

	case Cone:
		if spec.Radius <= 0 || spec.Height <= 0 {
			return nil, errf("createPrimitive", "cone needs positive radius and height")
		}
		return &SolidHandle{triangles: buildCylinder(spec.Radius, 0, spec.Height, segments)}, nil

	case Rectangle:
		if spec.Width <= 0 || spec.Depth <= 0 {
			return nil, errf("createPrimitive", "rectangle needs positive width and depth")
		}
		return &SketchHandle{outline: geometry.RectanglePath(spec.Width, spec.Depth)}, nil

	case Circle:
		if spec.Radius <= 0 {
			return nil, errf("createPrimitive", "circle needs a positive radius, got %g", spec.Radius)
		}
		return &SketchHandle{outline: geometry.CirclePath(spec.Radius, segments)}, nil

	case Polygon:
		if len(spec.Points) < 3 {
			return nil, errf("createPrimitive", "polygon needs at least 3 points, got %d", len(spec.Points))
		}
		return &SketchHandle{outline: append([]geometry.Vector3(nil), spec.Points...)}, nil

	case Line:
		thickness := spec.Thickness
		if thickness <= 0 {
			thickness = 1
		}
		outline, err := geometry.ExpandPath(spec.Points, thickness)
		if err != nil {
			return nil, errf("createPrimitive", "line: %v", err)
		}
		return &SketchHandle{outline: outline}, nil

	default:
		return nil, errf("createPrimitive", "unknown primitive kind %q", spec.Kind)
	}
}

// BooleanCombine combines solids. Union concatenates the operand meshes;
// intersect and subtract require a CSG backend and report an error.
func (m *Mesh) BooleanCombine(op BooleanOp, handles []Handle) (Handle, error) {
	if len(handles) < 2 {
		return nil, errf("booleanCombine", "%s needs at least 2 operands, got %d", op, len(handles))
	}

	solids := make([]*SolidHandle, 0, len(handles))
	for i, h := range handles {
		solid, ok := h.(*SolidHandle)
		if !ok {
			return nil, errf("booleanCombine", "operand %d is not a 3D solid from this kernel", i)
		}
		solids = append(solids, solid)
	}

	switch op {
	case Union:
		var merged []geometry.Triangle
		for _, s := range solids {
			merged = append(merged, s.triangles...)
		}
		return &SolidHandle{triangles: merged}, nil

	case Intersect, Subtract:
		return nil, errf("booleanCombine", "%s requires a CSG backend", op)

	default:
		return nil, errf("booleanCombine", "unknown boolean op %q", op)
	}
}

// Transform returns a fresh handle with the transform applied. The input
// handle is left untouched.
func (m *Mesh) Transform(op TransformOp, spec TransformSpec, h Handle) (Handle, error) {
	var fn func(geometry.Vector3) geometry.Vector3
	switch op {
	case Translate:
		fn = func(v geometry.Vector3) geometry.Vector3 { return v.Add(spec.Offset) }
	case Rotate:
		if spec.Axis.Length() == 0 {
			return nil, errf("transform", "rotate needs a non-zero axis")
		}
		fn = func(v geometry.Vector3) geometry.Vector3 { return v.RotateAround(spec.Axis, spec.Angle) }
	case Scale:
		if spec.Factors.X == 0 || spec.Factors.Y == 0 || spec.Factors.Z == 0 {
			return nil, errf("transform", "scale factors must be non-zero, got %v", spec.Factors)
		}
		fn = func(v geometry.Vector3) geometry.Vector3 { return v.ScaleBy(spec.Factors) }
	default:
		return nil, errf("transform", "unknown transform op %q", op)
	}

	switch src := h.(type) {
	case *SolidHandle:
		triangles := make([]geometry.Triangle, len(src.triangles))
		for i, t := range src.triangles {
			triangles[i] = t.MapVertices(fn)
		}
		return &SolidHandle{triangles: triangles}, nil

	case *SketchHandle:
		outline := make([]geometry.Vector3, len(src.outline))
		for i, p := range src.outline {
			outline[i] = fn(p)
		}
		return &SketchHandle{outline: outline}, nil

	default:
		return nil, errf("transform", "foreign geometry handle %T", h)
	}
}

// Extrude promotes a 2D sketch to a solid prism of the given height along
// the Z axis.
func (m *Mesh) Extrude(height float64, h Handle) (Handle, error) {
	if height <= 0 {
		return nil, errf("extrude", "height must be positive, got %g", height)
	}
	sketch, ok := h.(*SketchHandle)
	if !ok {
		return nil, errf("extrude", "operand is not a 2D sketch")
	}

	bottom, err := geometry.TriangulatePolygon(sketch.outline)
	if err != nil {
		return nil, errf("extrude", "%v", err)
	}
	lift := geometry.NewVector3(0, 0, height)

	var triangles []geometry.Triangle
	for _, t := range bottom {
		// Bottom cap faces down: reverse the winding
		triangles = append(triangles, geometry.TriangleFromVertices(t.V1, t.V3, t.V2))
		// Top cap keeps the CCW winding, lifted by the height
		triangles = append(triangles, geometry.TriangleFromVertices(
			t.V1.Add(lift), t.V2.Add(lift), t.V3.Add(lift)))
	}

	// Side walls: one quad (two triangles) per outline edge
	n := len(sketch.outline)
	for i := 0; i < n; i++ {
		a := sketch.outline[i]
		b := sketch.outline[(i+1)%n]
		at := a.Add(lift)
		bt := b.Add(lift)
		triangles = append(triangles,
			geometry.TriangleFromVertices(a, b, bt),
			geometry.TriangleFromVertices(a, bt, at),
		)
	}

	return &SolidHandle{triangles: triangles}, nil
}
