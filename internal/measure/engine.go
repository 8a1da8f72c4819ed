// Package measure implements the interactive measurement engine: a state
// machine that collects picked 3D points, computes distances and angles,
// and keeps a live visualization synchronized with the scene and the unit
// system.
package measure

import (
	"fmt"
	"sync"
	"time"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// Kind selects what a point sequence measures.
type Kind string

const (
	// Distance measures the Euclidean distance between 2 points.
	Distance Kind = "distance"
	// Angle measures the angle at the middle of 3 points.
	Angle Kind = "angle"
)

// pointsFor returns how many picks complete a measurement of this kind.
func (k Kind) pointsFor() int {
	if k == Angle {
		return 3
	}
	return 2
}

// Formatter is the unit-system collaborator used to render values for
// display. Lengths arrive in model units, angles in radians.
type Formatter interface {
	FormatLength(v float64) string
	FormatAngle(rad float64) string
}

// Measurement is a completed record. It is immutable after creation; the
// Formatted string keeps the unit system that was active at completion.
type Measurement struct {
	Kind      Kind               `json:"kind"`
	Points    []geometry.Vector3 `json:"points"`
	Value     float64            `json:"value"` // length, or angle in radians
	Formatted string             `json:"formatted"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Segment is one visualization line between two points.
type Segment struct {
	Start geometry.Vector3 `json:"start"`
	End   geometry.Vector3 `json:"end"`
}

// Visualization describes the live, in-progress measurement for the
// renderer: a marker per buffered point, connecting segments (for angle
// mode, two legs sharing the vertex) and a running label.
type Visualization struct {
	Markers  []geometry.Vector3 `json:"markers"`
	Segments []Segment          `json:"segments"`
	Label    string             `json:"label,omitempty"`
	LabelAt  geometry.Vector3   `json:"labelAt"`
}

// Engine is the measurement state machine. Point processing is serialized:
// each pick is handled completely, including the completion transition,
// before the next one is accepted. Callbacks run synchronously inside that
// critical section and must not call back into the engine.
type Engine struct {
	mu     sync.Mutex
	kind   Kind
	buffer []geometry.Vector3
	saved  []Measurement
	units  Formatter
	viz    Visualization

	onComplete func(Measurement)
	onViz      func(Visualization)
}

// NewEngine creates an engine in distance mode with the given unit system.
func NewEngine(units Formatter) *Engine {
	return &Engine{kind: Distance, units: units}
}

// OnComplete registers the completion callback, invoked exactly once per
// completed measurement, synchronously within the AddPoint call that
// completed it.
func (e *Engine) OnComplete(fn func(Measurement)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onComplete = fn
}

// OnVisualization registers the live-visualization observer.
func (e *Engine) OnVisualization(fn func(Visualization)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onViz = fn
}

// AddPoint feeds one picked point into the state machine.
func (e *Engine) AddPoint(p geometry.Vector3) {
	e.mu.Lock()
	defer e.mu.Unlock()

	required := e.kind.pointsFor()
	// A buffer beyond K is only reachable by a race in the pick source;
	// reset and drop the overflow point rather than starting a new cycle.
	if len(e.buffer) >= required {
		e.buffer = nil
		e.emitViz()
		return
	}

	e.buffer = append(e.buffer, p)
	e.emitViz()

	if len(e.buffer) == required {
		e.complete()
	}
}

// complete computes the metric, stores and reports the measurement, then
// resets the buffer for the same kind. Caller holds the lock.
func (e *Engine) complete() {
	m := Measurement{
		Kind:      e.kind,
		Points:    append([]geometry.Vector3(nil), e.buffer...),
		CreatedAt: time.Now(),
	}
	switch e.kind {
	case Angle:
		// The middle point is the vertex
		m.Value = geometry.AngleAt(e.buffer[1], e.buffer[0], e.buffer[2])
		m.Formatted = e.units.FormatAngle(m.Value)
	default:
		m.Value = e.buffer[0].Distance(e.buffer[1])
		m.Formatted = e.units.FormatLength(m.Value)
	}

	e.saved = append(e.saved, m)
	e.buffer = nil
	e.emitViz()

	if e.onComplete != nil {
		e.onComplete(m)
	}
}

// SetKind switches between distance and angle mode, discarding the
// in-progress buffer. Saved measurements are untouched.
func (e *Engine) SetKind(k Kind) error {
	if k != Distance && k != Angle {
		return fmt.Errorf("unknown measurement kind %q", k)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kind = k
	e.buffer = nil
	e.emitViz()
	return nil
}

// Kind returns the current measurement mode.
func (e *Engine) Kind() Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.kind
}

// CancelActive aborts the in-progress measurement, keeping saved ones.
func (e *Engine) CancelActive() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buffer = nil
	e.emitViz()
}

// ClearAll discards the in-progress buffer and all saved measurements.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buffer = nil
	e.saved = nil
	e.emitViz()
}

// SetUnitSystem swaps the unit system and reformats the live
// visualization. Already-saved measurements keep their original
// formatting.
func (e *Engine) SetUnitSystem(units Formatter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.units = units
	e.emitViz()
}

// Saved returns a copy of the completed measurements.
func (e *Engine) Saved() []Measurement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Measurement(nil), e.saved...)
}

// PendingCount returns the number of buffered points.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.buffer)
}

// Visualization returns the current live visualization.
func (e *Engine) Visualization() Visualization {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viz
}

// emitViz rebuilds the live visualization from the buffer and notifies the
// observer. Caller holds the lock.
func (e *Engine) emitViz() {
	viz := Visualization{
		Markers: append([]geometry.Vector3(nil), e.buffer...),
	}
	for i := 1; i < len(e.buffer); i++ {
		viz.Segments = append(viz.Segments, Segment{Start: e.buffer[i-1], End: e.buffer[i]})
	}
	if len(e.buffer) >= 2 {
		viz.Label = e.units.FormatLength(geometry.PathLength(e.buffer))
		viz.LabelAt = midpoint(e.buffer)
	}

	e.viz = viz
	if e.onViz != nil {
		e.onViz(viz)
	}
}

func midpoint(points []geometry.Vector3) geometry.Vector3 {
	sum := geometry.Vector3{}
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}
