package tool

import (
	"encoding/json"

	"github.com/philipparndt/gocad/internal/registry"
)

// ParamType is the declared type of a tool parameter.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeNumber      ParamType = "number"
	TypeBool        ParamType = "bool"
	TypeNumberArray ParamType = "number[]"
	TypeStringArray ParamType = "string[]"
	TypePointArray  ParamType = "point[]"
	TypeObject      ParamType = "object"
)

// Param describes one named tool parameter.
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Descriptor is an immutable named operation: a parameter schema plus an
// executor. Descriptors are registered once at dispatcher construction and
// read-only thereafter.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`

	run func(d *Dispatcher, args map[string]any) Result
}

// Result is the outcome of one tool execution.
type Result struct {
	Success bool            `json:"success"`
	ModelID string          `json:"modelId,omitempty"`
	Model   *registry.Model `json:"model,omitempty"`
	Message string          `json:"message,omitempty"`
	Err     *Error          `json:"error,omitempty"`
}

func success(model *registry.Model, message string) Result {
	return Result{Success: true, ModelID: model.ID, Model: model, Message: message}
}

func failure(err *Error) Result {
	return Result{Success: false, Err: err, Message: err.Message}
}

// Change is one mutation notification delivered to subscribers. Either
// Model is set (created/updated) or Deleted is true with the removed id.
type Change struct {
	Model   *registry.Model
	Deleted bool
	ID      string
}

// normalizeArgs checks the incoming parameter map against the schema:
// unknown keys and missing required parameters are validation errors,
// optional parameters get their declared defaults.
func (desc *Descriptor) normalizeArgs(args map[string]any) (map[string]any, *Error) {
	known := make(map[string]Param, len(desc.Params))
	for _, p := range desc.Params {
		known[p.Name] = p
	}

	out := make(map[string]any, len(args))
	for name, value := range args {
		if _, ok := known[name]; !ok {
			return nil, validationErrf("unknown parameter %q for tool %q", name, desc.Name)
		}
		out[name] = value
	}

	for _, p := range desc.Params {
		if _, present := out[p.Name]; present {
			continue
		}
		if p.Required {
			return nil, validationErrf("missing required parameter %q for tool %q", p.Name, desc.Name)
		}
		if p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out, nil
}

// decodeArgs maps a normalized argument map onto a typed parameter struct
// through its JSON tags.
func decodeArgs(args map[string]any, target any) *Error {
	raw, err := json.Marshal(args)
	if err != nil {
		return validationErrf("malformed parameters: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return validationErrf("malformed parameters: %v", err)
	}
	return nil
}
