// Package server exposes the dispatcher and measurement engine over HTTP
// for external front-ends. It is a thin collaborator surface: all
// semantics live in the tool and measure packages.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/philipparndt/gocad/internal/measure"
	"github.com/philipparndt/gocad/internal/tool"
	"github.com/philipparndt/gocad/pkg/geometry"
)

// Server routes HTTP requests to the CAD core.
type Server struct {
	dispatcher *tool.Dispatcher
	engine     *measure.Engine
	log        *zap.Logger
}

// New creates a server around a dispatcher and a measurement engine.
func New(dispatcher *tool.Dispatcher, engine *measure.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{dispatcher: dispatcher, engine: engine, log: log}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}", s.handleExecute)

		r.Get("/models", s.handleListModels)
		r.Get("/models/{id}", s.handleGetModel)
		r.Delete("/models/{id}", s.handleDeleteModel)

		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)

		r.Get("/measurements", s.handleListMeasurements)
		r.Post("/measurements/points", s.handleAddPoint)
		r.Post("/measurements/kind", s.handleSetKind)
		r.Post("/measurements/cancel", s.handleCancel)
		r.Delete("/measurements", s.handleClearMeasurements)
	})
	return r
}

// requestLogger logs each request with its duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Tools())
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	params := map[string]any{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
			return
		}
	}

	res := s.dispatcher.Execute(name, params)
	writeJSON(w, statusFor(res), res)
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Registry().List())
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	model, ok := s.dispatcher.Registry().Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "model not found"})
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	res := s.dispatcher.Execute("delete_model", map[string]any{"model": chi.URLParam(r, "id")})
	writeJSON(w, statusFor(res), res)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"undone": s.dispatcher.Undo()})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"redone": s.dispatcher.Redo()})
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"saved":   s.engine.Saved(),
		"live":    s.engine.Visualization(),
		"kind":    s.engine.Kind(),
		"pending": s.engine.PendingCount(),
	})
}

func (s *Server) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}
	s.engine.AddPoint(geometry.NewVector3(body.X, body.Y, body.Z))
	writeJSON(w, http.StatusOK, map[string]any{
		"pending": s.engine.PendingCount(),
		"saved":   len(s.engine.Saved()),
	})
}

func (s *Server) handleSetKind(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}
	if err := s.engine.SetKind(measure.Kind(body.Kind)); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kind": body.Kind})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.engine.CancelActive()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearMeasurements(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps the structured error taxonomy onto HTTP status codes.
func statusFor(res tool.Result) int {
	if res.Success {
		return http.StatusOK
	}
	if res.Err == nil {
		return http.StatusBadRequest
	}
	switch res.Err.Kind {
	case tool.KindModelNotFound:
		return http.StatusNotFound
	case tool.KindBusy:
		return http.StatusConflict
	case tool.KindKernel:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
