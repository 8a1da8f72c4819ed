package tool

import "fmt"

// ErrorKind classifies a structured operation failure.
type ErrorKind string

const (
	// KindValidation means a missing or malformed parameter; the kernel
	// was never invoked.
	KindValidation ErrorKind = "validation"
	// KindModelNotFound means a referenced model id is absent.
	KindModelNotFound ErrorKind = "model_not_found"
	// KindKernel means the geometry kernel rejected the operation.
	KindKernel ErrorKind = "kernel"
	// KindBusy means the target model is locked by a concurrent mutation.
	KindBusy ErrorKind = "busy"
)

// Error is a structured operation failure. Operations never panic; every
// failure surfaces as an Error inside a Result, with the registry and
// history left untouched.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	ModelID string    `json:"modelId,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.ModelID != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.ModelID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func validationErrf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(id string) *Error {
	return &Error{Kind: KindModelNotFound, ModelID: id, Message: fmt.Sprintf("model %q not found", id)}
}

func busyErr(id string) *Error {
	return &Error{Kind: KindBusy, ModelID: id, Message: fmt.Sprintf("model %q has a mutation in flight", id)}
}

func kernelErr(err error) *Error {
	return &Error{Kind: KindKernel, Message: err.Error()}
}
