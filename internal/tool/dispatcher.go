// Package tool implements the operation dispatch pipeline: named,
// schema-validated operations executed against the model registry through
// the geometry kernel, with global undo/redo history and ordered change
// notifications.
package tool

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/philipparndt/gocad/internal/registry"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// Dispatcher executes tools against one registry/kernel pair. Tool
// invocations may arrive from multiple goroutines; the dispatcher allows
// at most one in-flight mutation per target model id and rejects
// conflicting requests with a Busy error instead of interleaving them.
type Dispatcher struct {
	reg      *registry.Registry
	kern     kernel.Kernel
	validate *validator.Validate
	log      *zap.Logger

	// mu guards inflight, the history stacks and the subscriber list.
	mu       sync.Mutex
	inflight map[string]struct{}
	undo     []*record
	redo     []*record
	subs     []func(Change)

	tools map[string]*Descriptor
	order []string
}

// New creates a dispatcher with all built-in tools registered.
func New(reg *registry.Registry, kern kernel.Kernel, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		reg:      reg,
		kern:     kern,
		validate: validator.New(),
		log:      log,
		inflight: make(map[string]struct{}),
		tools:    make(map[string]*Descriptor),
	}
	for _, desc := range builtins() {
		d.register(desc)
	}
	return d
}

func (d *Dispatcher) register(desc *Descriptor) {
	if _, exists := d.tools[desc.Name]; !exists {
		d.order = append(d.order, desc.Name)
	}
	d.tools[desc.Name] = desc
}

// Registry returns the registry this dispatcher mutates.
func (d *Dispatcher) Registry() *registry.Registry { return d.reg }

// Tools returns all descriptors in registration order.
func (d *Dispatcher) Tools() []*Descriptor {
	out := make([]*Descriptor, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name])
	}
	return out
}

// Subscribe registers a change observer. Observers are called
// synchronously after each successful mutation, in mutation order.
func (d *Dispatcher) Subscribe(fn func(Change)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, fn)
}

// Execute runs a named tool with the given parameters. All failures are
// returned as structured results; the registry and history are never left
// partially updated.
func (d *Dispatcher) Execute(name string, args map[string]any) Result {
	desc, ok := d.tools[name]
	if !ok {
		return failure(validationErrf("unknown tool %q", name))
	}

	normalized, verr := desc.normalizeArgs(args)
	if verr != nil {
		d.log.Debug("tool rejected", zap.String("tool", name), zap.String("error", verr.Message))
		return failure(verr)
	}

	res := desc.run(d, normalized)
	if res.Success {
		d.log.Info("tool executed",
			zap.String("tool", name),
			zap.String("model", res.ModelID),
			zap.String("message", res.Message))
	} else {
		d.log.Warn("tool failed",
			zap.String("tool", name),
			zap.String("kind", string(res.Err.Kind)),
			zap.String("error", res.Err.Message))
	}
	return res
}

// Undo inverts the most recent operation. Returns false on an empty undo
// stack or when the target model is locked by an in-flight mutation.
func (d *Dispatcher) Undo() bool {
	d.mu.Lock()
	if len(d.undo) == 0 {
		d.mu.Unlock()
		return false
	}
	rec := d.undo[len(d.undo)-1]
	if d.recordBusy(rec) {
		d.mu.Unlock()
		return false
	}
	change, ok := rec.applyUndo(d.reg)
	if !ok {
		d.mu.Unlock()
		return false
	}
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, rec)
	subs := make([]func(Change), len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	d.log.Info("undo", zap.String("tool", rec.tool))
	deliver(subs, change)
	return true
}

// Redo re-applies the most recently undone operation. Returns false on an
// empty redo stack or when the target model is locked.
func (d *Dispatcher) Redo() bool {
	d.mu.Lock()
	if len(d.redo) == 0 {
		d.mu.Unlock()
		return false
	}
	rec := d.redo[len(d.redo)-1]
	if d.recordBusy(rec) {
		d.mu.Unlock()
		return false
	}
	change, ok := rec.applyRedo(d.reg)
	if !ok {
		d.mu.Unlock()
		return false
	}
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, rec)
	subs := make([]func(Change), len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	d.log.Info("redo", zap.String("tool", rec.tool))
	deliver(subs, change)
	return true
}

// HistoryDepth returns the undo and redo stack sizes.
func (d *Dispatcher) HistoryDepth() (undo, redo int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.undo), len(d.redo)
}

func (d *Dispatcher) recordBusy(rec *record) bool {
	id := rec.target
	if rec.model != nil {
		id = rec.model.ID
	}
	_, busy := d.inflight[id]
	return busy
}

// acquire marks the given model ids as having a mutation in flight. If any
// id is already marked, nothing is acquired and a Busy error is returned.
func (d *Dispatcher) acquire(ids ...string) *Error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		if _, busy := d.inflight[id]; busy {
			return busyErr(id)
		}
	}
	for _, id := range ids {
		d.inflight[id] = struct{}{}
	}
	return nil
}

func (d *Dispatcher) release(ids ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		delete(d.inflight, id)
	}
}

// commit records a successful operation: push onto the undo stack, clear
// the redo stack, then deliver the change notifications in order.
func (d *Dispatcher) commit(rec *record, changes ...Change) {
	d.mu.Lock()
	d.undo = append(d.undo, rec)
	d.redo = nil
	subs := make([]func(Change), len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	deliver(subs, changes...)
}

// notify delivers change notifications for mutations that are not part of
// the undo history (visibility, rename).
func (d *Dispatcher) notify(changes ...Change) {
	d.mu.Lock()
	subs := make([]func(Change), len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	deliver(subs, changes...)
}

func deliver(subs []func(Change), changes ...Change) {
	for _, change := range changes {
		for _, fn := range subs {
			fn(change)
		}
	}
}

// check runs struct validation and converts the first failure into a
// validation error.
func (d *Dispatcher) check(params any) *Error {
	if err := d.validate.Struct(params); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return validationErrf("parameter %q failed %q validation", fe.Field(), fe.Tag())
		}
		return validationErrf("invalid parameters: %v", err)
	}
	return nil
}

// resolveTarget resolves an explicit model id, or falls back to the active
// model when the id is empty.
func (d *Dispatcher) resolveTarget(id string) (*registry.Model, *Error) {
	if id == "" {
		model := d.reg.Active()
		if model == nil {
			return nil, validationErrf("no model specified and no active model set")
		}
		return model, nil
	}
	model, ok := d.reg.Get(id)
	if !ok {
		return nil, notFoundErr(id)
	}
	return model, nil
}

// resolveAll resolves a list of model ids, failing on the first absent id
// before any mutation happens.
func (d *Dispatcher) resolveAll(ids []string) ([]*registry.Model, *Error) {
	models := make([]*registry.Model, len(ids))
	for i, id := range ids {
		model, ok := d.reg.Get(id)
		if !ok {
			return nil, notFoundErr(id)
		}
		models[i] = model
	}
	return models, nil
}
