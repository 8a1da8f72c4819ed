// Package registry holds the session's named geometric models and the
// active-model pointer. The registry never notifies observers itself;
// change notifications are the operation dispatcher's responsibility, so
// failed operations never surface a stale event.
//
// Accessors return snapshots, never the stored models: callers may read a
// returned Model without holding any lock while mutations continue.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// Registry is the session-scoped model store. It is safe for concurrent
// use; operations on disjoint models may run in parallel.
type Registry struct {
	mu       sync.RWMutex
	models   map[string]*Model
	order    []string
	activeID string
	nameSeq  int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		models: make(map[string]*Model),
	}
}

// Update describes a partial model update. Nil fields are left unchanged.
type Update struct {
	Name     *string
	Visible  *bool
	Geometry kernel.Handle
	Metadata map[string]any
}

// Add stores a new model and returns it. A fresh id is generated and is
// never reused. An empty name gets the next auto-numbered default.
func (r *Registry) Add(geometry kernel.Handle, name string, metadata map[string]any) *Model {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		r.nameSeq++
		name = fmt.Sprintf("Model %d", r.nameSeq)
	}

	now := time.Now()
	model := &Model{
		ID:        uuid.NewString(),
		Name:      name,
		Geometry:  geometry,
		Visible:   true,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  metadata,
	}
	r.models[model.ID] = model
	r.order = append(r.order, model.ID)
	return model.clone()
}

// Restore re-inserts a previously removed model, keeping its id. Used by
// undo/redo.
func (r *Registry) Restore(model *Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[model.ID]; exists {
		return
	}
	r.models[model.ID] = model.clone()
	r.order = append(r.order, model.ID)
}

// Get returns a snapshot of a model by id.
func (r *Registry) Get(id string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	model, ok := r.models[id]
	if !ok {
		return nil, false
	}
	return model.clone(), true
}

// Update merges the given fields into a model and refreshes its update
// timestamp. Returns false without side effects if the id is absent.
func (r *Registry) Update(id string, update Update) (*Model, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	model, ok := r.models[id]
	if !ok {
		return nil, false
	}
	if update.Name != nil {
		model.Name = *update.Name
	}
	if update.Visible != nil {
		model.Visible = *update.Visible
	}
	if update.Geometry != nil {
		model.Geometry = update.Geometry
	}
	for k, v := range update.Metadata {
		if model.Metadata == nil {
			model.Metadata = make(map[string]any)
		}
		model.Metadata[k] = v
	}
	model.UpdatedAt = time.Now()
	return model.clone(), true
}

// Remove deletes a model. Returns false if the id is absent. If the
// removed model was active, the active slot is cleared.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[id]; !ok {
		return false
	}
	delete(r.models, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.activeID == id {
		r.activeID = ""
	}
	return true
}

// SetActive sets the active model. An empty id clears the active slot.
// Returns false if a non-empty id is absent.
func (r *Registry) SetActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if _, ok := r.models[id]; !ok {
			return false
		}
	}
	r.activeID = id
	return true
}

// Active returns a snapshot of the active model, or nil if none is set.
func (r *Registry) Active() *Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeID == "" {
		return nil
	}
	return r.models[r.activeID].clone()
}

// SetVisibility toggles a model's visibility flag. Returns false if the
// id is absent.
func (r *Registry) SetVisibility(id string, visible bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	model, ok := r.models[id]
	if !ok {
		return false
	}
	model.Visible = visible
	model.UpdatedAt = time.Now()
	return true
}

// List returns snapshots of all models in insertion order.
func (r *Registry) List() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Model, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id].clone())
	}
	return out
}

// ListVisible returns snapshots of all visible models in insertion order.
func (r *Registry) ListVisible() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Model
	for _, id := range r.order {
		if m := r.models[id]; m.Visible {
			out = append(out, m.clone())
		}
	}
	return out
}

// Len returns the number of stored models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Clear empties the registry and resets the active slot. The name sequence
// keeps counting so ids and default names stay unambiguous within a session.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.models = make(map[string]*Model)
	r.order = nil
	r.activeID = ""
}
