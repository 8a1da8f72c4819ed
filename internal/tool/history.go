package tool

import (
	"github.com/philipparndt/gocad/internal/registry"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// recordKind identifies how an operation record inverts its mutation.
type recordKind int

const (
	// recordCreate: the operation added a model; undo removes it.
	recordCreate recordKind = iota
	// recordReplace: the operation swapped a model's geometry handle;
	// undo restores the prior handle.
	recordReplace
	// recordDelete: the operation removed a model; undo restores it.
	recordDelete
)

// record is one undo/redo unit: the minimal state needed to invert a
// single successful operation.
type record struct {
	kind  recordKind
	tool  string
	model *registry.Model // created or deleted model snapshot

	// replace records
	target string
	before kernel.Handle
	after  kernel.Handle
}

// applyUndo inverts the record against the registry and returns the
// resulting change notification.
func (rec *record) applyUndo(reg *registry.Registry) (Change, bool) {
	switch rec.kind {
	case recordCreate:
		if !reg.Remove(rec.model.ID) {
			return Change{}, false
		}
		return Change{Deleted: true, ID: rec.model.ID}, true

	case recordDelete:
		reg.Restore(rec.model)
		return Change{Model: rec.model}, true

	default: // recordReplace
		model, ok := reg.Update(rec.target, registry.Update{Geometry: rec.before})
		if !ok {
			return Change{}, false
		}
		return Change{Model: model}, true
	}
}

// applyRedo re-applies the record against the registry and returns the
// resulting change notification.
func (rec *record) applyRedo(reg *registry.Registry) (Change, bool) {
	switch rec.kind {
	case recordCreate:
		reg.Restore(rec.model)
		return Change{Model: rec.model}, true

	case recordDelete:
		if !reg.Remove(rec.model.ID) {
			return Change{}, false
		}
		return Change{Deleted: true, ID: rec.model.ID}, true

	default: // recordReplace
		model, ok := reg.Update(rec.target, registry.Update{Geometry: rec.after})
		if !ok {
			return Change{}, false
		}
		return Change{Model: model}, true
	}
}
