package kernel

import (
	"math"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// buildBox tessellates an axis-aligned box centered at the origin.
func buildBox(width, depth, height float64) []geometry.Triangle {
	w := width / 2
	d := depth / 2
	h := height / 2

	// Corner layout: bit 0 = +X, bit 1 = +Y, bit 2 = +Z
	corners := [8]geometry.Vector3{}
	for i := 0; i < 8; i++ {
		x, y, z := -w, -d, -h
		if i&1 != 0 {
			x = w
		}
		if i&2 != 0 {
			y = d
		}
		if i&4 != 0 {
			z = h
		}
		corners[i] = geometry.NewVector3(x, y, z)
	}

	quads := [6][4]int{
		{0, 2, 3, 1}, // bottom (-Z)
		{4, 5, 7, 6}, // top (+Z)
		{0, 1, 5, 4}, // front (-Y)
		{2, 6, 7, 3}, // back (+Y)
		{0, 4, 6, 2}, // left (-X)
		{1, 3, 7, 5}, // right (+X)
	}

	triangles := make([]geometry.Triangle, 0, 12)
	for _, q := range quads {
		triangles = append(triangles,
			geometry.TriangleFromVertices(corners[q[0]], corners[q[1]], corners[q[2]]),
			geometry.TriangleFromVertices(corners[q[0]], corners[q[2]], corners[q[3]]),
		)
	}
	return triangles
}

// buildSphere tessellates a UV sphere centered at the origin. segments is
// the longitudinal resolution; half of it is used for latitude rings.
func buildSphere(radius float64, segments int) []geometry.Triangle {
	rings := segments / 2
	if rings < 2 {
		rings = 2
	}

	at := func(ring, seg int) geometry.Vector3 {
		theta := math.Pi * float64(ring) / float64(rings) // 0..π from +Z pole
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		sin := math.Sin(theta)
		return geometry.NewVector3(
			radius*sin*math.Cos(phi),
			radius*sin*math.Sin(phi),
			radius*math.Cos(theta),
		)
	}

	var triangles []geometry.Triangle
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := at(ring, seg)
			b := at(ring+1, seg)
			c := at(ring+1, seg+1)
			d := at(ring, seg+1)

			if ring > 0 {
				triangles = append(triangles, geometry.TriangleFromVertices(a, b, d))
			}
			if ring < rings-1 {
				triangles = append(triangles, geometry.TriangleFromVertices(b, c, d))
			}
		}
	}
	return triangles
}

// buildCylinder tessellates a cylinder (or cone when topRadius is zero)
// centered at the origin, with its axis along Z.
func buildCylinder(bottomRadius, topRadius, height float64, segments int) []geometry.Triangle {
	h := height / 2
	bottomAt := func(seg int) geometry.Vector3 {
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		return geometry.NewVector3(bottomRadius*math.Cos(phi), bottomRadius*math.Sin(phi), -h)
	}
	topAt := func(seg int) geometry.Vector3 {
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		return geometry.NewVector3(topRadius*math.Cos(phi), topRadius*math.Sin(phi), h)
	}

	bottomCenter := geometry.NewVector3(0, 0, -h)
	topCenter := geometry.NewVector3(0, 0, h)

	var triangles []geometry.Triangle
	for seg := 0; seg < segments; seg++ {
		b0 := bottomAt(seg)
		b1 := bottomAt(seg + 1)
		t0 := topAt(seg)
		t1 := topAt(seg + 1)

		// Bottom cap faces down
		triangles = append(triangles, geometry.TriangleFromVertices(bottomCenter, b1, b0))

		if topRadius > 0 {
			// Top cap faces up
			triangles = append(triangles, geometry.TriangleFromVertices(topCenter, t0, t1))
			triangles = append(triangles,
				geometry.TriangleFromVertices(b0, b1, t1),
				geometry.TriangleFromVertices(b0, t1, t0),
			)
		} else {
			// Cone: sides collapse to the apex
			triangles = append(triangles, geometry.TriangleFromVertices(b0, b1, topCenter))
		}
	}
	return triangles
}
