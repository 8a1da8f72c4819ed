package geometry

import (
	"fmt"
	"math"
)

// CirclePath returns a closed counter-clockwise outline approximating a
// circle of the given radius in the XY plane, centered at the origin.
func CirclePath(radius float64, segments int) []Vector3 {
	if segments < 3 {
		segments = 3
	}
	points := make([]Vector3, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = NewVector3(radius*math.Cos(angle), radius*math.Sin(angle), 0)
	}
	return points
}

// RectanglePath returns a closed counter-clockwise rectangle outline in the
// XY plane, centered at the origin.
func RectanglePath(width, depth float64) []Vector3 {
	w := width / 2
	d := depth / 2
	return []Vector3{
		NewVector3(-w, -d, 0),
		NewVector3(w, -d, 0),
		NewVector3(w, d, 0),
		NewVector3(-w, d, 0),
	}
}

// ExpandPath expands an open polyline into a closed outline with the given
// total thickness, by offsetting each point perpendicular to the local
// path direction in the XY plane.
func ExpandPath(points []Vector3, thickness float64) ([]Vector3, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("path needs at least 2 points, got %d", len(points))
	}
	half := thickness / 2
	left := make([]Vector3, len(points))
	right := make([]Vector3, len(points))

	for i, p := range points {
		var dir Vector3
		switch {
		case i == 0:
			dir = points[1].Sub(points[0])
		case i == len(points)-1:
			dir = points[i].Sub(points[i-1])
		default:
			dir = points[i+1].Sub(points[i-1])
		}
		dir = dir.Normalize()
		if dir.Length() == 0 {
			return nil, fmt.Errorf("degenerate path segment at point %d", i)
		}
		// Perpendicular in the XY plane
		perp := NewVector3(-dir.Y, dir.X, 0)
		left[i] = p.Add(perp.Mul(half))
		right[i] = p.Sub(perp.Mul(half))
	}

	outline := make([]Vector3, 0, 2*len(points))
	outline = append(outline, right...)
	for i := len(left) - 1; i >= 0; i-- {
		outline = append(outline, left[i])
	}
	return outline, nil
}

// PathLength returns the total length of a polyline.
func PathLength(points []Vector3) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i].Distance(points[i-1])
	}
	return total
}

// signedArea2D returns twice the signed area of a closed outline projected
// onto the XY plane. Positive means counter-clockwise winding.
func signedArea2D(outline []Vector3) float64 {
	area := 0.0
	for i := range outline {
		j := (i + 1) % len(outline)
		area += outline[i].X*outline[j].Y - outline[j].X*outline[i].Y
	}
	return area
}

// TriangulatePolygon triangulates a simple (non-self-intersecting) closed
// outline in the XY plane via ear clipping. The outline may be concave.
func TriangulatePolygon(outline []Vector3) ([]Triangle, error) {
	n := len(outline)
	if n < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 points, got %d", n)
	}

	// Work on a CCW copy so ear tests have a consistent orientation
	points := make([]Vector3, n)
	copy(points, outline)
	if signedArea2D(points) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	var triangles []Triangle
	guard := 0
	for len(indices) > 3 {
		guard++
		if guard > n*n {
			return nil, fmt.Errorf("polygon is not simple, triangulation failed")
		}
		clipped := false
		for i := 0; i < len(indices); i++ {
			prev := indices[(i+len(indices)-1)%len(indices)]
			curr := indices[i]
			next := indices[(i+1)%len(indices)]
			if isEar(points, indices, prev, curr, next) {
				triangles = append(triangles, TriangleFromVertices(points[prev], points[curr], points[next]))
				indices = append(indices[:i], indices[i+1:]...)
				clipped = true
				break
			}
		}
		if !clipped {
			return nil, fmt.Errorf("polygon is not simple, triangulation failed")
		}
	}
	triangles = append(triangles, TriangleFromVertices(
		points[indices[0]], points[indices[1]], points[indices[2]]))
	return triangles, nil
}

// isEar reports whether the triangle (prev, curr, next) is a convex ear
// containing no other outline vertex.
func isEar(points []Vector3, indices []int, prev, curr, next int) bool {
	a, b, c := points[prev], points[curr], points[next]

	// Convexity check via the Z component of the edge cross product
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross <= 0 {
		return false
	}

	for _, idx := range indices {
		if idx == prev || idx == curr || idx == next {
			continue
		}
		if pointInTriangle2D(points[idx], a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangle2D reports whether p lies inside triangle (a, b, c) in the
// XY plane, using barycentric sign tests.
func pointInTriangle2D(p, a, b, c Vector3) bool {
	sign := func(p1, p2, p3 Vector3) float64 {
		return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
	}
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
