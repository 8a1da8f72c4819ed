package tool

import (
	"fmt"
	"math"
	"strings"

	"github.com/philipparndt/gocad/internal/registry"
	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/stl"
)

// Display-name glyphs for derived models
const (
	glyphUnion     = " ∪ "
	glyphIntersect = " ∩ "
	glyphSubtract  = " − "
)

func builtins() []*Descriptor {
	return []*Descriptor{
		{
			Name:        "create_primitive",
			Description: "Create a 3D primitive solid",
			Params: []Param{
				{Name: "kind", Type: TypeString, Required: true, Description: "cube, box, sphere, cylinder or cone"},
				{Name: "name", Type: TypeString},
				{Name: "size", Type: TypeNumber, Description: "cube edge length"},
				{Name: "width", Type: TypeNumber},
				{Name: "depth", Type: TypeNumber},
				{Name: "height", Type: TypeNumber},
				{Name: "radius", Type: TypeNumber},
				{Name: "segments", Type: TypeNumber},
				{Name: "metadata", Type: TypeObject},
			},
			run: execCreatePrimitive,
		},
		{
			Name:        "sketch",
			Description: "Create a 2D sketch shape, optionally extruded to 3D",
			Params: []Param{
				{Name: "shape", Type: TypeString, Required: true, Description: "line, rectangle, circle or polygon"},
				{Name: "name", Type: TypeString},
				{Name: "width", Type: TypeNumber},
				{Name: "depth", Type: TypeNumber},
				{Name: "radius", Type: TypeNumber},
				{Name: "segments", Type: TypeNumber},
				{Name: "thickness", Type: TypeNumber, Description: "line expansion width"},
				{Name: "points", Type: TypePointArray},
				{Name: "height", Type: TypeNumber, Description: "extrusion height; 0 keeps the sketch 2D"},
			},
			run: execSketch,
		},
		{
			Name:        "extrude",
			Description: "Extrude a 2D sketch model into a new 3D solid",
			Params: []Param{
				{Name: "model", Type: TypeString, Description: "defaults to the active model"},
				{Name: "name", Type: TypeString},
				{Name: "height", Type: TypeNumber, Required: true},
			},
			run: execExtrude,
		},
		{
			Name:        "translate",
			Description: "Move a model by an offset vector",
			Params: []Param{
				{Name: "model", Type: TypeString, Description: "defaults to the active model"},
				{Name: "offset", Type: TypeNumberArray, Required: true},
			},
			run: execTranslate,
		},
		{
			Name:        "rotate",
			Description: "Rotate a model around an axis",
			Params: []Param{
				{Name: "model", Type: TypeString, Description: "defaults to the active model"},
				{Name: "angle", Type: TypeNumber, Required: true, Description: "degrees"},
				{Name: "axis", Type: TypeNumberArray, Default: []any{0.0, 0.0, 1.0}},
			},
			run: execRotate,
		},
		{
			Name:        "scale",
			Description: "Scale a model uniformly or per axis",
			Params: []Param{
				{Name: "model", Type: TypeString, Description: "defaults to the active model"},
				{Name: "factor", Type: TypeNumber, Description: "uniform scale factor"},
				{Name: "factors", Type: TypeNumberArray, Description: "per-axis scale factors"},
			},
			run: execScale,
		},
		{
			Name:        "union",
			Description: "Combine two or more solids into a new model",
			Params: []Param{
				{Name: "models", Type: TypeStringArray, Required: true},
				{Name: "name", Type: TypeString},
			},
			run: func(d *Dispatcher, args map[string]any) Result {
				return execBoolean(d, args, kernel.Union, glyphUnion)
			},
		},
		{
			Name:        "intersect",
			Description: "Intersect two or more solids into a new model",
			Params: []Param{
				{Name: "models", Type: TypeStringArray, Required: true},
				{Name: "name", Type: TypeString},
			},
			run: func(d *Dispatcher, args map[string]any) Result {
				return execBoolean(d, args, kernel.Intersect, glyphIntersect)
			},
		},
		{
			Name:        "subtract",
			Description: "Subtract one or more solids from a base model",
			Params: []Param{
				{Name: "base", Type: TypeString, Required: true},
				{Name: "subtract", Type: TypeStringArray, Required: true},
				{Name: "name", Type: TypeString},
			},
			run: execSubtract,
		},
		{
			Name:        "delete_model",
			Description: "Delete a model from the registry",
			Params: []Param{
				{Name: "model", Type: TypeString, Required: true},
			},
			run: execDeleteModel,
		},
		{
			Name:        "set_visibility",
			Description: "Show or hide a model",
			Params: []Param{
				{Name: "model", Type: TypeString, Required: true},
				{Name: "visible", Type: TypeBool, Required: true},
			},
			run: execSetVisibility,
		},
		{
			Name:        "rename_model",
			Description: "Rename a model",
			Params: []Param{
				{Name: "model", Type: TypeString, Required: true},
				{Name: "name", Type: TypeString, Required: true},
			},
			run: execRenameModel,
		},
		{
			Name:        "set_active",
			Description: "Set or clear the active model",
			Params: []Param{
				{Name: "model", Type: TypeString, Description: "empty clears the active model"},
			},
			run: execSetActive,
		},
		{
			Name:        "import_stl",
			Description: "Import an STL file as a new model",
			Params: []Param{
				{Name: "path", Type: TypeString, Required: true},
				{Name: "name", Type: TypeString},
			},
			run: execImportSTL,
		},
	}
}

func execCreatePrimitive(d *Dispatcher, args map[string]any) Result {
	var p createPrimitiveParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	handle, err := d.kern.CreatePrimitive(kernel.PrimitiveSpec{
		Kind:     kernel.PrimitiveKind(p.Kind),
		Size:     p.Size,
		Width:    p.Width,
		Depth:    p.Depth,
		Height:   p.Height,
		Radius:   p.Radius,
		Segments: p.Segments,
	})
	if err != nil {
		return failure(kernelErr(err))
	}

	model := d.reg.Add(handle, p.Name, p.Metadata)
	d.commit(&record{kind: recordCreate, tool: "create_primitive", model: model}, Change{Model: model})
	return success(model, fmt.Sprintf("created %s %q", p.Kind, model.Name))
}

func execSketch(d *Dispatcher, args map[string]any) Result {
	var p sketchParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	handle, err := d.kern.CreatePrimitive(kernel.PrimitiveSpec{
		Kind:      kernel.PrimitiveKind(p.Shape),
		Width:     p.Width,
		Depth:     p.Depth,
		Radius:    p.Radius,
		Segments:  p.Segments,
		Thickness: p.Thickness,
		Points:    toPoints(p.Points),
	})
	if err != nil {
		return failure(kernelErr(err))
	}

	// A positive height promotes the sketch to a solid before it is
	// stored; zero or omitted keeps it 2D.
	if p.Height > 0 {
		handle, err = d.kern.Extrude(p.Height, handle)
		if err != nil {
			return failure(kernelErr(err))
		}
	}

	model := d.reg.Add(handle, p.Name, nil)
	d.commit(&record{kind: recordCreate, tool: "sketch", model: model}, Change{Model: model})
	return success(model, fmt.Sprintf("created %dD %s %q", model.Dim(), p.Shape, model.Name))
}

func execExtrude(d *Dispatcher, args map[string]any) Result {
	var p extrudeParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	source, e := d.resolveTarget(p.Model)
	if e != nil {
		return failure(e)
	}
	if source.Dim() != 2 {
		return failure(validationErrf("model %q is not a 2D sketch", source.Name))
	}

	if e := d.acquire(source.ID); e != nil {
		return failure(e)
	}
	defer d.release(source.ID)

	handle, err := d.kern.Extrude(p.Height, source.Geometry)
	if err != nil {
		return failure(kernelErr(err))
	}

	name := p.Name
	if name == "" {
		name = source.Name + " extruded"
	}
	model := d.reg.Add(handle, name, nil)
	d.commit(&record{kind: recordCreate, tool: "extrude", model: model}, Change{Model: model})
	return success(model, fmt.Sprintf("extruded %q to height %g", source.Name, p.Height))
}

func execTranslate(d *Dispatcher, args map[string]any) Result {
	var p translateParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}
	return d.execTransform("translate", p.Model, kernel.Translate, kernel.TransformSpec{
		Offset: toVector3(p.Offset),
	})
}

func execRotate(d *Dispatcher, args map[string]any) Result {
	var p rotateParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	// Angle arrives in degrees; the kernel works in radians. A missing
	// axis defaults to Z.
	axis := geometry.NewVector3(0, 0, 1)
	if len(p.Axis) == 3 {
		axis = toVector3(p.Axis)
	}
	return d.execTransform("rotate", p.Model, kernel.Rotate, kernel.TransformSpec{
		Axis:  axis,
		Angle: p.Angle * math.Pi / 180,
	})
}

func execScale(d *Dispatcher, args map[string]any) Result {
	var p scaleParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	// Uniform and per-axis factors are normalized to a 3-vector here so
	// the kernel sees a single shape of request.
	var factors geometry.Vector3
	switch {
	case p.Factor > 0 && len(p.Factors) > 0:
		return failure(validationErrf("specify either factor or factors, not both"))
	case p.Factor > 0:
		factors = geometry.NewVector3(p.Factor, p.Factor, p.Factor)
	case len(p.Factors) == 3:
		factors = toVector3(p.Factors)
	default:
		return failure(validationErrf("scale needs a factor or a 3-element factors array"))
	}

	return d.execTransform("scale", p.Model, kernel.Scale, kernel.TransformSpec{Factors: factors})
}

// execTransform is the shared replace-geometry path for translate, rotate
// and scale.
func (d *Dispatcher) execTransform(toolName, modelID string, op kernel.TransformOp, spec kernel.TransformSpec) Result {
	model, e := d.resolveTarget(modelID)
	if e != nil {
		return failure(e)
	}

	if e := d.acquire(model.ID); e != nil {
		return failure(e)
	}
	defer d.release(model.ID)

	before := model.Geometry
	after, err := d.kern.Transform(op, spec, before)
	if err != nil {
		return failure(kernelErr(err))
	}

	updated, ok := d.reg.Update(model.ID, registry.Update{Geometry: after})
	if !ok {
		return failure(notFoundErr(model.ID))
	}
	d.commit(&record{
		kind:   recordReplace,
		tool:   toolName,
		target: model.ID,
		before: before,
		after:  after,
	}, Change{Model: updated})
	return success(updated, fmt.Sprintf("%s applied to %q", toolName, updated.Name))
}

// execBoolean is the shared n-ary path for union and intersect: operands
// stay in the registry, the result becomes a new model.
func execBoolean(d *Dispatcher, args map[string]any, op kernel.BooleanOp, glyph string) Result {
	var p booleanParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	models, e := d.resolveAll(p.Models)
	if e != nil {
		return failure(e)
	}

	if e := d.acquire(p.Models...); e != nil {
		return failure(e)
	}
	defer d.release(p.Models...)

	handles := make([]kernel.Handle, len(models))
	names := make([]string, len(models))
	for i, m := range models {
		handles[i] = m.Geometry
		names[i] = m.Name
	}

	handle, err := d.kern.BooleanCombine(op, handles)
	if err != nil {
		return failure(kernelErr(err))
	}

	name := p.Name
	if name == "" {
		name = strings.Join(names, glyph)
	}
	model := d.reg.Add(handle, name, nil)
	d.commit(&record{kind: recordCreate, tool: string(op), model: model}, Change{Model: model})
	return success(model, fmt.Sprintf("%s of %d models", op, len(models)))
}

func execSubtract(d *Dispatcher, args map[string]any) Result {
	var p subtractParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	ids := append([]string{p.Base}, p.Subtract...)
	models, e := d.resolveAll(ids)
	if e != nil {
		return failure(e)
	}

	if e := d.acquire(ids...); e != nil {
		return failure(e)
	}
	defer d.release(ids...)

	handles := make([]kernel.Handle, len(models))
	names := make([]string, len(models))
	for i, m := range models {
		handles[i] = m.Geometry
		names[i] = m.Name
	}

	handle, err := d.kern.BooleanCombine(kernel.Subtract, handles)
	if err != nil {
		return failure(kernelErr(err))
	}

	name := p.Name
	if name == "" {
		name = strings.Join(names, glyphSubtract)
	}
	model := d.reg.Add(handle, name, nil)
	d.commit(&record{kind: recordCreate, tool: "subtract", model: model}, Change{Model: model})
	return success(model, fmt.Sprintf("subtracted %d models from %q", len(p.Subtract), models[0].Name))
}

func execDeleteModel(d *Dispatcher, args map[string]any) Result {
	var p deleteModelParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	model, ok := d.reg.Get(p.Model)
	if !ok {
		return failure(notFoundErr(p.Model))
	}

	if e := d.acquire(model.ID); e != nil {
		return failure(e)
	}
	defer d.release(model.ID)

	if !d.reg.Remove(model.ID) {
		return failure(notFoundErr(model.ID))
	}
	d.commit(&record{kind: recordDelete, tool: "delete_model", model: model},
		Change{Deleted: true, ID: model.ID})
	return Result{Success: true, ModelID: model.ID, Message: fmt.Sprintf("deleted %q", model.Name)}
}

func execSetVisibility(d *Dispatcher, args map[string]any) Result {
	var p setVisibilityParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	if !d.reg.SetVisibility(p.Model, *p.Visible) {
		return failure(notFoundErr(p.Model))
	}
	model, _ := d.reg.Get(p.Model)
	d.notify(Change{Model: model})
	return success(model, fmt.Sprintf("visibility of %q set to %t", model.Name, *p.Visible))
}

func execRenameModel(d *Dispatcher, args map[string]any) Result {
	var p renameModelParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	model, ok := d.reg.Update(p.Model, registry.Update{Name: &p.Name})
	if !ok {
		return failure(notFoundErr(p.Model))
	}
	d.notify(Change{Model: model})
	return success(model, fmt.Sprintf("renamed to %q", p.Name))
}

func execSetActive(d *Dispatcher, args map[string]any) Result {
	var p setActiveParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}

	if !d.reg.SetActive(p.Model) {
		return failure(notFoundErr(p.Model))
	}
	if p.Model == "" {
		return Result{Success: true, Message: "active model cleared"}
	}
	model, _ := d.reg.Get(p.Model)
	return success(model, fmt.Sprintf("active model is %q", model.Name))
}

func execImportSTL(d *Dispatcher, args map[string]any) Result {
	var p importSTLParams
	if e := decodeArgs(args, &p); e != nil {
		return failure(e)
	}
	if e := d.check(p); e != nil {
		return failure(e)
	}

	importer, ok := d.kern.(kernel.TriangleImporter)
	if !ok {
		return failure(kernelErr(fmt.Errorf("kernel does not support mesh import")))
	}

	parsed, err := stl.Parse(p.Path)
	if err != nil {
		return failure(validationErrf("cannot read STL file: %v", err))
	}

	name := p.Name
	if name == "" {
		name = parsed.Name
	}
	model := d.reg.Add(importer.FromTriangles(parsed.Triangles), name, map[string]any{"source": p.Path})
	d.commit(&record{kind: recordCreate, tool: "import_stl", model: model}, Change{Model: model})
	return success(model, fmt.Sprintf("imported %d triangles from %s", len(parsed.Triangles), p.Path))
}
