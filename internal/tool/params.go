package tool

import (
	"github.com/philipparndt/gocad/pkg/geometry"
)

// Typed parameter structs, one per built-in tool. Execution decodes the
// request map into these and validates them before any kernel call.

type createPrimitiveParams struct {
	Kind      string         `json:"kind" validate:"required,oneof=cube box sphere cylinder cone"`
	Name      string         `json:"name"`
	Size      float64        `json:"size" validate:"omitempty,gt=0"`
	Width     float64        `json:"width" validate:"omitempty,gt=0"`
	Depth     float64        `json:"depth" validate:"omitempty,gt=0"`
	Height    float64        `json:"height" validate:"omitempty,gt=0"`
	Radius    float64        `json:"radius" validate:"omitempty,gt=0"`
	Segments  int            `json:"segments" validate:"omitempty,gte=3,lte=512"`
	Metadata  map[string]any `json:"metadata"`
}

type sketchParams struct {
	Shape     string      `json:"shape" validate:"required,oneof=line rectangle circle polygon"`
	Name      string      `json:"name"`
	Width     float64     `json:"width" validate:"omitempty,gt=0"`
	Depth     float64     `json:"depth" validate:"omitempty,gt=0"`
	Radius    float64     `json:"radius" validate:"omitempty,gt=0"`
	Segments  int         `json:"segments" validate:"omitempty,gte=3,lte=512"`
	Thickness float64     `json:"thickness" validate:"omitempty,gt=0"`
	Points    [][]float64 `json:"points" validate:"omitempty,dive,len=3"`
	// Height 0 (or omitted) keeps the sketch 2D
	Height float64 `json:"height" validate:"omitempty,gte=0"`
}

type extrudeParams struct {
	Model  string  `json:"model"`
	Name   string  `json:"name"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

type translateParams struct {
	Model  string    `json:"model"`
	Offset []float64 `json:"offset" validate:"required,len=3"`
}

// Angle presence is enforced by the descriptor schema; a zero angle is a
// valid identity rotation, so no struct-level required tag.
type rotateParams struct {
	Model string    `json:"model"`
	Angle float64   `json:"angle"` // degrees
	Axis  []float64 `json:"axis" validate:"omitempty,len=3"`
}

type scaleParams struct {
	Model   string    `json:"model"`
	Factor  float64   `json:"factor" validate:"omitempty,gt=0"`
	Factors []float64 `json:"factors" validate:"omitempty,len=3,dive,gt=0"`
}

type booleanParams struct {
	Models []string `json:"models" validate:"required,min=2,dive,required"`
	Name   string   `json:"name"`
}

type subtractParams struct {
	Base     string   `json:"base" validate:"required"`
	Subtract []string `json:"subtract" validate:"required,min=1,dive,required"`
	Name     string   `json:"name"`
}

type deleteModelParams struct {
	Model string `json:"model" validate:"required"`
}

type setVisibilityParams struct {
	Model   string `json:"model" validate:"required"`
	Visible *bool  `json:"visible" validate:"required"`
}

type renameModelParams struct {
	Model string `json:"model" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

type setActiveParams struct {
	Model string `json:"model"`
}

type importSTLParams struct {
	Path string `json:"path" validate:"required"`
	Name string `json:"name"`
}

// toVector3 converts a validated 3-element slice.
func toVector3(v []float64) geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

// toPoints converts a slice of validated 3-element slices.
func toPoints(pts [][]float64) []geometry.Vector3 {
	out := make([]geometry.Vector3, len(pts))
	for i, p := range pts {
		out[i] = toVector3(p)
	}
	return out
}
