package kernel

import (
	"math"
	"testing"

	"github.com/philipparndt/gocad/pkg/geometry"
)

func surfaceArea(h Handle) float64 {
	total := 0.0
	for _, t := range h.(*SolidHandle).Triangles() {
		total += t.Area()
	}
	return total
}

func TestCreateCube(t *testing.T) {
	m := NewMesh()
	h, err := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 2})
	if err != nil {
		t.Fatalf("CreatePrimitive failed: %v", err)
	}

	if h.Dim() != 3 {
		t.Errorf("cube dimensionality: expected 3, got %d", h.Dim())
	}
	if count := h.(*SolidHandle).TriangleCount(); count != 12 {
		t.Errorf("cube triangle count: expected 12, got %d", count)
	}
	if area := surfaceArea(h); math.Abs(area-24.0) > 1e-10 {
		t.Errorf("cube surface area: expected 24.0, got %v", area)
	}
}

func TestCreateCubeInvalidSize(t *testing.T) {
	m := NewMesh()
	if _, err := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: -1}); err == nil {
		t.Error("expected error for negative cube size")
	}
}

func TestCreateSphere(t *testing.T) {
	m := NewMesh()
	h, err := m.CreatePrimitive(PrimitiveSpec{Kind: Sphere, Radius: 1, Segments: 64})
	if err != nil {
		t.Fatalf("CreatePrimitive failed: %v", err)
	}

	// Tessellated area approaches 4πr² from below
	area := surfaceArea(h)
	exact := 4 * math.Pi
	if area >= exact || area < exact*0.99 {
		t.Errorf("sphere surface area: expected close to %v, got %v", exact, area)
	}
}

func TestCreateSketchShapes(t *testing.T) {
	m := NewMesh()

	rect, err := m.CreatePrimitive(PrimitiveSpec{Kind: Rectangle, Width: 4, Depth: 2})
	if err != nil {
		t.Fatalf("rectangle failed: %v", err)
	}
	if rect.Dim() != 2 {
		t.Errorf("rectangle dimensionality: expected 2, got %d", rect.Dim())
	}

	circle, err := m.CreatePrimitive(PrimitiveSpec{Kind: Circle, Radius: 3, Segments: 24})
	if err != nil {
		t.Fatalf("circle failed: %v", err)
	}
	if outline := circle.(*SketchHandle).Outline(); len(outline) != 24 {
		t.Errorf("circle outline points: expected 24, got %d", len(outline))
	}

	line, err := m.CreatePrimitive(PrimitiveSpec{
		Kind:      Line,
		Thickness: 1,
		Points:    []geometry.Vector3{geometry.NewVector3(0, 0, 0), geometry.NewVector3(5, 0, 0)},
	})
	if err != nil {
		t.Fatalf("line failed: %v", err)
	}
	if line.Dim() != 2 {
		t.Errorf("line dimensionality: expected 2, got %d", line.Dim())
	}
}

func TestTransformTranslate(t *testing.T) {
	m := NewMesh()
	cube, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 1})

	moved, err := m.Transform(Translate, TransformSpec{Offset: geometry.NewVector3(10, 0, 0)}, cube)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if moved == cube {
		t.Error("Transform must return a fresh handle")
	}

	center := moved.(*SolidHandle).Triangles()[0].Center()
	original := cube.(*SolidHandle).Triangles()[0].Center()
	if center.Sub(original).Distance(geometry.NewVector3(10, 0, 0)) > 1e-10 {
		t.Errorf("translate offset wrong: original %v, moved %v", original, center)
	}
}

func TestTransformScalePreservesInput(t *testing.T) {
	m := NewMesh()
	cube, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 2})
	before := surfaceArea(cube)

	scaled, err := m.Transform(Scale, TransformSpec{Factors: geometry.NewVector3(2, 2, 2)}, cube)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if math.Abs(surfaceArea(cube)-before) > 1e-10 {
		t.Error("Transform mutated its input handle")
	}
	if area := surfaceArea(scaled); math.Abs(area-before*4) > 1e-10 {
		t.Errorf("scaled surface area: expected %v, got %v", before*4, area)
	}
}

func TestTransformRotate(t *testing.T) {
	m := NewMesh()
	box, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Box, Width: 2, Depth: 1, Height: 1})

	rotated, err := m.Transform(Rotate, TransformSpec{
		Axis:  geometry.NewVector3(0, 0, 1),
		Angle: math.Pi / 2,
	}, box)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	bbox := geometry.NewBoundingBox()
	for _, tri := range rotated.(*SolidHandle).Triangles() {
		bbox.Extend(tri.V1)
		bbox.Extend(tri.V2)
		bbox.Extend(tri.V3)
	}
	size := bbox.Size()
	if math.Abs(size.X-1) > 1e-10 || math.Abs(size.Y-2) > 1e-10 {
		t.Errorf("rotated box extents: expected 1x2, got %vx%v", size.X, size.Y)
	}
}

func TestTransformRotateZeroAxis(t *testing.T) {
	m := NewMesh()
	cube, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 1})
	if _, err := m.Transform(Rotate, TransformSpec{Angle: 1}, cube); err == nil {
		t.Error("expected error for zero rotation axis")
	}
}

func TestExtrudeRectangle(t *testing.T) {
	m := NewMesh()
	rect, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Rectangle, Width: 4, Depth: 2})

	solid, err := m.Extrude(3, rect)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	if solid.Dim() != 3 {
		t.Errorf("extruded dimensionality: expected 3, got %d", solid.Dim())
	}

	// 2 caps of area 8 plus sides 2*(4*3) + 2*(2*3) = 36
	if area := surfaceArea(solid); math.Abs(area-52.0) > 1e-10 {
		t.Errorf("extruded surface area: expected 52.0, got %v", area)
	}
}

func TestExtrudeRejectsSolids(t *testing.T) {
	m := NewMesh()
	cube, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 1})
	if _, err := m.Extrude(1, cube); err == nil {
		t.Error("expected error extruding a 3D solid")
	}
}

func TestExtrudeRejectsNonPositiveHeight(t *testing.T) {
	m := NewMesh()
	rect, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Rectangle, Width: 1, Depth: 1})
	if _, err := m.Extrude(0, rect); err == nil {
		t.Error("expected error for zero extrusion height")
	}
}

func TestBooleanUnion(t *testing.T) {
	m := NewMesh()
	a, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 1})
	b, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 2})

	result, err := m.BooleanCombine(Union, []Handle{a, b})
	if err != nil {
		t.Fatalf("BooleanCombine failed: %v", err)
	}

	expected := a.(*SolidHandle).TriangleCount() + b.(*SolidHandle).TriangleCount()
	if count := result.(*SolidHandle).TriangleCount(); count != expected {
		t.Errorf("union triangle count: expected %d, got %d", expected, count)
	}
}

func TestBooleanSubtractUnsupported(t *testing.T) {
	m := NewMesh()
	a, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 1})
	b, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 2})

	if _, err := m.BooleanCombine(Subtract, []Handle{a, b}); err == nil {
		t.Error("expected error for subtract without a CSG backend")
	}
}

func TestBooleanRejectsSketches(t *testing.T) {
	m := NewMesh()
	a, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Cube, Size: 1})
	rect, _ := m.CreatePrimitive(PrimitiveSpec{Kind: Rectangle, Width: 1, Depth: 1})

	if _, err := m.BooleanCombine(Union, []Handle{a, rect}); err == nil {
		t.Error("expected error for a 2D boolean operand")
	}
}

func TestFromTriangles(t *testing.T) {
	m := NewMesh()
	tris := []geometry.Triangle{
		geometry.TriangleFromVertices(
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(0, 1, 0),
		),
	}
	h := m.FromTriangles(tris)

	if h.Dim() != 3 {
		t.Errorf("imported dimensionality: expected 3, got %d", h.Dim())
	}
	if count := h.(*SolidHandle).TriangleCount(); count != 1 {
		t.Errorf("imported triangle count: expected 1, got %d", count)
	}
}
