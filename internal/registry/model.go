package registry

import (
	"time"

	"github.com/philipparndt/gocad/pkg/kernel"
)

// Model is one named geometric object. Its geometry handle is owned
// exclusively by the model and is replaced, never mutated in place, by
// every shape-changing operation, so undo history can hold prior handles.
type Model struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Geometry  kernel.Handle  `json:"-"`
	Visible   bool           `json:"visible"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Dim returns the dimensionality of the model's geometry.
func (m *Model) Dim() int {
	if m.Geometry == nil {
		return 0
	}
	return m.Geometry.Dim()
}

// clone returns an independent snapshot of the model. The geometry handle
// is shared; handles are immutable and only ever replaced wholesale.
func (m *Model) clone() *Model {
	out := *m
	if m.Metadata != nil {
		out.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
