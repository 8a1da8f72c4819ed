package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gocad/internal/measure"
	"github.com/philipparndt/gocad/internal/registry"
	"github.com/philipparndt/gocad/internal/tool"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/units"
)

func newTestServer(t *testing.T) (*httptest.Server, *tool.Dispatcher) {
	t.Helper()
	d := tool.New(registry.New(), kernel.NewMesh(), nil)
	engine := measure.NewEngine(units.Millimeters)
	ts := httptest.NewServer(New(d, engine, nil).Router())
	t.Cleanup(ts.Close)
	return ts, d
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestListTools(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/tools")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tools []map[string]any
	decode(t, resp, &tools)
	names := make(map[string]bool)
	for _, tl := range tools {
		names[tl["name"].(string)] = true
	}
	assert.True(t, names["create_primitive"])
	assert.True(t, names["union"])
}

func TestExecuteTool(t *testing.T) {
	ts, d := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/tools/create_primitive", map[string]any{
		"kind": "cube",
		"size": 10,
		"name": "Base",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res tool.Result
	decode(t, resp, &res)
	assert.True(t, res.Success)
	require.NotNil(t, res.Model)
	assert.Equal(t, "Base", res.Model.Name)
	assert.Equal(t, 1, d.Registry().Len())
}

func TestExecuteValidationError(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/tools/create_primitive", map[string]any{
		"kind": "cube",
		"size": 10,
		"nope": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestExecuteUnknownModel(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/tools/translate", map[string]any{
		"model":  "ghost",
		"offset": []float64{1, 0, 0},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestExecuteKernelError(t *testing.T) {
	ts, _ := newTestServer(t)

	create := postJSON(t, ts.URL+"/api/tools/create_primitive", map[string]any{
		"kind": "cube", "size": 10,
	})
	var res tool.Result
	decode(t, create, &res)

	other := postJSON(t, ts.URL+"/api/tools/create_primitive", map[string]any{
		"kind": "cube", "size": 5,
	})
	var res2 tool.Result
	decode(t, other, &res2)

	resp := postJSON(t, ts.URL+"/api/tools/subtract", map[string]any{
		"base":     res.ModelID,
		"subtract": []string{res2.ModelID},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestModelLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	create := postJSON(t, ts.URL+"/api/tools/create_primitive", map[string]any{
		"kind": "sphere", "radius": 4,
	})
	var res tool.Result
	decode(t, create, &res)
	require.True(t, res.Success)

	listResp, err := http.Get(ts.URL + "/api/models")
	require.NoError(t, err)
	var models []registry.Model
	decode(t, listResp, &models)
	require.Len(t, models, 1)

	getResp, err := http.Get(ts.URL + "/api/models/" + res.ModelID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	getResp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/models/"+res.ModelID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
	delResp.Body.Close()

	missing, err := http.Get(ts.URL + "/api/models/" + res.ModelID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()
}

func TestUndoRedo(t *testing.T) {
	ts, d := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/tools/create_primitive", map[string]any{
		"kind": "cube", "size": 1,
	})
	resp.Body.Close()
	require.Equal(t, 1, d.Registry().Len())

	undo := postJSON(t, ts.URL+"/api/undo", map[string]any{})
	var undone map[string]bool
	decode(t, undo, &undone)
	assert.True(t, undone["undone"])
	assert.Equal(t, 0, d.Registry().Len())

	redo := postJSON(t, ts.URL+"/api/redo", map[string]any{})
	var redone map[string]bool
	decode(t, redo, &redone)
	assert.True(t, redone["redone"])
	assert.Equal(t, 1, d.Registry().Len())

	// Empty stack
	again := postJSON(t, ts.URL+"/api/redo", map[string]any{})
	var empty map[string]bool
	decode(t, again, &empty)
	assert.False(t, empty["redone"])
}

func TestMeasurementFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, p := range [][3]float64{{0, 0, 0}, {3, 4, 0}} {
		resp := postJSON(t, ts.URL+"/api/measurements/points", map[string]any{
			"x": p[0], "y": p[1], "z": p[2],
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/measurements")
	require.NoError(t, err)
	var state struct {
		Saved   []measure.Measurement `json:"saved"`
		Kind    string                `json:"kind"`
		Pending int                   `json:"pending"`
	}
	decode(t, resp, &state)
	require.Len(t, state.Saved, 1)
	assert.Equal(t, "5.00 mm", state.Saved[0].Formatted)
	assert.Equal(t, "distance", state.Kind)
	assert.Equal(t, 0, state.Pending)
}

func TestSetMeasurementKind(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/measurements/kind", map[string]any{"kind": "angle"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	bad := postJSON(t, ts.URL+"/api/measurements/kind", map[string]any{"kind": "volume"})
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	bad.Body.Close()
}

func TestCancelAndClearMeasurements(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/measurements/points", map[string]any{"x": 1.0})
	resp.Body.Close()

	cancel := postJSON(t, ts.URL+"/api/measurements/cancel", map[string]any{})
	assert.Equal(t, http.StatusNoContent, cancel.StatusCode)
	cancel.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/measurements", nil)
	require.NoError(t, err)
	clearResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, clearResp.StatusCode)
	clearResp.Body.Close()
}

func TestMalformedBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/tools/create_primitive", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUnknownToolReturns400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/tools/frobnicate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var res tool.Result
	decode(t, resp, &res)
	assert.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Contains(t, res.Err.Message, "frobnicate")
}
