package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/units"
)

func TestDistanceMeasurement(t *testing.T) {
	e := NewEngine(units.Millimeters)

	var completed []Measurement
	e.OnComplete(func(m Measurement) { completed = append(completed, m) })

	e.AddPoint(geometry.NewVector3(0, 0, 0))
	assert.Equal(t, 1, e.PendingCount())
	assert.Empty(t, completed)

	e.AddPoint(geometry.NewVector3(3, 4, 0))
	require.Len(t, completed, 1)
	assert.Equal(t, Distance, completed[0].Kind)
	assert.InDelta(t, 5.0, completed[0].Value, 1e-10)
	assert.Equal(t, "5.00 mm", completed[0].Formatted)

	// Buffer resets for the next measurement of the same kind
	assert.Equal(t, 0, e.PendingCount())
	assert.Equal(t, Distance, e.Kind())
	assert.Len(t, e.Saved(), 1)
}

func TestAngleMeasurement(t *testing.T) {
	e := NewEngine(units.Millimeters)
	require.NoError(t, e.SetKind(Angle))

	var completed []Measurement
	e.OnComplete(func(m Measurement) { completed = append(completed, m) })

	e.AddPoint(geometry.NewVector3(1, 0, 0))
	e.AddPoint(geometry.NewVector3(0, 0, 0)) // vertex
	assert.Empty(t, completed)
	e.AddPoint(geometry.NewVector3(0, 1, 0))

	require.Len(t, completed, 1)
	assert.Equal(t, Angle, completed[0].Kind)
	assert.InDelta(t, math.Pi/2, completed[0].Value, 1e-10)
	assert.Equal(t, "90.0°", completed[0].Formatted)
}

func TestSetKindClearsBufferNotSaved(t *testing.T) {
	e := NewEngine(units.Millimeters)
	e.AddPoint(geometry.NewVector3(0, 0, 0))
	e.AddPoint(geometry.NewVector3(1, 0, 0)) // completes one distance
	e.AddPoint(geometry.NewVector3(5, 5, 5)) // starts another

	require.NoError(t, e.SetKind(Angle))
	assert.Equal(t, 0, e.PendingCount())
	assert.Len(t, e.Saved(), 1)
}

func TestSetKindRejectsUnknown(t *testing.T) {
	e := NewEngine(units.Millimeters)
	assert.Error(t, e.SetKind(Kind("radius")))
}

func TestCancelActiveStartsFreshBuffer(t *testing.T) {
	e := NewEngine(units.Millimeters)
	require.NoError(t, e.SetKind(Angle))
	e.AddPoint(geometry.NewVector3(0, 0, 0))
	e.AddPoint(geometry.NewVector3(1, 0, 0))

	e.CancelActive()
	assert.Equal(t, 0, e.PendingCount())

	e.AddPoint(geometry.NewVector3(2, 2, 2))
	assert.Equal(t, 1, e.PendingCount())
	assert.Empty(t, e.Saved())
}

func TestClearAll(t *testing.T) {
	e := NewEngine(units.Millimeters)
	e.AddPoint(geometry.NewVector3(0, 0, 0))
	e.AddPoint(geometry.NewVector3(1, 0, 0))
	e.AddPoint(geometry.NewVector3(0, 0, 0))

	e.ClearAll()
	assert.Equal(t, 0, e.PendingCount())
	assert.Empty(t, e.Saved())
	assert.Empty(t, e.Visualization().Markers)
}

func TestLiveVisualization(t *testing.T) {
	e := NewEngine(units.Millimeters)
	require.NoError(t, e.SetKind(Angle))

	var last Visualization
	e.OnVisualization(func(v Visualization) { last = v })

	e.AddPoint(geometry.NewVector3(0, 0, 0))
	assert.Len(t, last.Markers, 1)
	assert.Empty(t, last.Segments)
	assert.Empty(t, last.Label)

	e.AddPoint(geometry.NewVector3(3, 4, 0))
	assert.Len(t, last.Markers, 2)
	require.Len(t, last.Segments, 1)
	assert.Equal(t, "5.00 mm", last.Label)

	// Completion clears the live visualization; the record persists
	e.AddPoint(geometry.NewVector3(6, 8, 0))
	assert.Empty(t, last.Markers)
	assert.Empty(t, last.Segments)
	assert.Len(t, e.Saved(), 1)
}

func TestSetUnitSystemReformatsLiveOnly(t *testing.T) {
	e := NewEngine(units.Millimeters)
	e.AddPoint(geometry.NewVector3(0, 0, 0))
	e.AddPoint(geometry.NewVector3(10, 0, 0)) // saved as "10.00 mm"

	require.NoError(t, e.SetKind(Angle))
	e.AddPoint(geometry.NewVector3(0, 0, 0))
	e.AddPoint(geometry.NewVector3(10, 0, 0))
	require.Equal(t, "10.00 mm", e.Visualization().Label)

	e.SetUnitSystem(units.Centimeters)
	assert.Equal(t, "1.00 cm", e.Visualization().Label)

	// Saved measurements keep their original formatting
	saved := e.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "10.00 mm", saved[0].Formatted)
}

func TestAngleLegsShareVertex(t *testing.T) {
	e := NewEngine(units.Millimeters)
	require.NoError(t, e.SetKind(Angle))

	var last Visualization
	e.OnVisualization(func(v Visualization) { last = v })

	a := geometry.NewVector3(1, 0, 0)
	vertex := geometry.NewVector3(0, 0, 0)
	e.AddPoint(a)
	e.AddPoint(vertex)

	require.Len(t, last.Segments, 1)
	assert.Equal(t, a, last.Segments[0].Start)
	assert.Equal(t, vertex, last.Segments[0].End)
}
