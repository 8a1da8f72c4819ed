// Package script loads and runs declarative YAML operation scripts against
// the tool dispatcher. Steps may alias their result model via save_as and
// later steps reference it as "$alias".
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is one ordered batch of tool invocations.
type Script struct {
	// Units is the display unit system for the session (mm, cm, m, in)
	Units string `yaml:"units"`
	Steps []Step `yaml:"steps"`
}

// Step is one tool invocation.
type Step struct {
	Tool   string         `yaml:"tool"`
	SaveAs string         `yaml:"save_as"`
	Params map[string]any `yaml:"params"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(raw)
}

// Parse parses script YAML.
func Parse(raw []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Steps {
		if step.Tool == "" {
			return nil, fmt.Errorf("step %d has no tool", i+1)
		}
	}
	return &s, nil
}
