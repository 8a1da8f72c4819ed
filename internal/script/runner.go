package script

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/gocad/internal/tool"
)

// Runner executes scripts against a dispatcher, resolving "$alias"
// references to the model ids produced by earlier steps.
type Runner struct {
	dispatcher *tool.Dispatcher
	aliases    map[string]string
	log        *zap.Logger
}

// NewRunner creates a runner bound to a dispatcher.
func NewRunner(dispatcher *tool.Dispatcher, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		dispatcher: dispatcher,
		aliases:    make(map[string]string),
		log:        log,
	}
}

// Run executes every step in order and returns the per-step results. It
// stops at the first failing step, returning the results so far and an
// error naming the step.
func (r *Runner) Run(s *Script) ([]tool.Result, error) {
	results := make([]tool.Result, 0, len(s.Steps))
	for i, step := range s.Steps {
		params, err := r.resolveParams(step.Params)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Tool, err)
		}

		res := r.dispatcher.Execute(step.Tool, params)
		results = append(results, res)
		if !res.Success {
			return results, fmt.Errorf("step %d (%s): %s", i+1, step.Tool, res.Err.Message)
		}

		if step.SaveAs != "" {
			if res.ModelID == "" {
				return results, fmt.Errorf("step %d (%s): save_as %q but the tool produced no model",
					i+1, step.Tool, step.SaveAs)
			}
			r.aliases[step.SaveAs] = res.ModelID
			r.log.Debug("alias bound", zap.String("alias", step.SaveAs), zap.String("model", res.ModelID))
		}
	}
	return results, nil
}

// resolveParams deep-copies the parameter map, substituting "$alias"
// strings (including inside arrays) with bound model ids.
func (r *Runner) resolveParams(params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for key, value := range params {
		resolved, err := r.resolveValue(value)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}
		out[key] = resolved
	}
	return out, nil
}

func (r *Runner) resolveValue(value any) (any, error) {
	switch v := value.(type) {
	case string:
		if !strings.HasPrefix(v, "$") {
			return v, nil
		}
		alias := strings.TrimPrefix(v, "$")
		id, ok := r.aliases[alias]
		if !ok {
			return nil, fmt.Errorf("unknown alias %q", alias)
		}
		return id, nil

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			resolved, err := r.resolveValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	case map[string]any:
		return r.resolveParams(v)

	default:
		return value, nil
	}
}
