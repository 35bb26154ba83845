package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/rewind"
	"github.com/aretw0/rewind/internal/logging"
	"github.com/aretw0/rewind/internal/presentation/graph"
	"github.com/aretw0/rewind/internal/sanitize"
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
	"github.com/aretw0/rewind/pkg/observability"
	"github.com/aretw0/rewind/pkg/store"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// StateResponse is the JSON view of a combined state.
type StateResponse[S any] struct {
	Base    S      `json:"base"`
	Head    int    `json:"head"`
	Len     int    `json:"len"`
	Message string `json:"message,omitempty"`
}

// CommitRequest is the body of POST /commit.
type CommitRequest struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Server exposes a store over HTTP.
type Server[S any] struct {
	Store  *store.Store[S]
	logger *slog.Logger
}

type config struct {
	logger     *slog.Logger
	metrics    http.Handler
	validation bool
}

// Option configures the handler built by NewHandler.
type Option func(*config)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *config) {
		c.metrics = h
	}
}

// WithRequestValidation toggles validation of requests against the OpenAPI
// document. Enabled by default.
func WithRequestValidation(enabled bool) Option {
	return func(c *config) {
		c.validation = enabled
	}
}

// NewHandler creates a new HTTP handler for the store.
func NewHandler[S any](s *store.Store[S], opts ...Option) (http.Handler, error) {
	cfg := &config{logger: logging.NewNop(), validation: true}
	for _, opt := range opts {
		opt(cfg)
	}

	server := &Server[S]{Store: s, logger: cfg.logger}
	r := chi.NewRouter()

	if cfg.validation {
		doc, err := GetSwagger()
		if err != nil {
			return nil, err
		}
		validate, err := requestValidator(doc, func(w http.ResponseWriter, r *http.Request, err error) {
			server.logger.Warn("Request failed validation", "path", r.URL.Path, "err", err)
			writeError(w, http.StatusBadRequest, err.Error(), "invalid_request")
		})
		if err != nil {
			return nil, err
		}
		r.Use(validate)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if cfg.metrics != nil {
		r.Handle("/metrics", cfg.metrics)
	}

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/state", server.GetState)
	r.Get("/history", server.GetHistory)
	r.Get("/history/graph", server.GetHistoryGraph)
	r.Post("/actions", server.Dispatch)
	r.Post("/commit", server.Commit)
	r.Post("/undo", server.Undo)
	r.Post("/redo", server.Redo)
	r.Post("/goto/{index}", server.Goto)

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Rewind API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server[S]) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server[S]) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "rewind-http",
		"version":     strings.TrimSpace(rewind.Version),
		"api_version": apiVersion,
		"store_id":    s.Store.ID(),
	}, s.logger)
}

// GetState handles the GET /state request.
func (s *Server[S]) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toResponse(s.Store.State()), s.logger)
}

// GetHistory handles the GET /history request.
func (s *Server[S]) GetHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.State().History, s.logger)
}

// GetHistoryGraph handles the GET /history/graph request.
// The state of each entry is rendered as compact JSON.
func (s *Server[S]) GetHistoryGraph(w http.ResponseWriter, r *http.Request) {
	out := graph.GenerateMermaid(s.Store.State().History, func(st S) string {
		data, err := json.Marshal(st)
		if err != nil {
			return "?"
		}
		return string(data)
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

// Dispatch handles the POST /actions request.
func (s *Server[S]) Dispatch(w http.ResponseWriter, r *http.Request) {
	var action domain.Action
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&action); err != nil {
		s.logger.Warn("Dispatch: Invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return
	}
	if action.Type == "" {
		writeError(w, http.StatusBadRequest, "action type is required", "invalid_request")
		return
	}
	action, err := sanitize.Action(action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), observability.Reason(err))
		return
	}
	s.apply(w, r, action)
}

// Commit handles the POST /commit request.
func (s *Server[S]) Commit(w http.ResponseWriter, r *http.Request) {
	var body CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("Commit: Invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return
	}
	msg, err := sanitize.Message(body.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), observability.Reason(err))
		return
	}
	s.apply(w, r, domain.Commit(msg))
}

// Undo handles the POST /undo request.
func (s *Server[S]) Undo(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, domain.Undo())
}

// Redo handles the POST /redo request.
func (s *Server[S]) Redo(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, domain.Redo())
}

// Goto handles the POST /goto/{index} request.
func (s *Server[S]) Goto(w http.ResponseWriter, r *http.Request) {
	var index int
	err := runtime.BindStyledParameterWithOptions("simple", "index", chi.URLParam(r, "index"), &index,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid format for parameter index: "+err.Error(), "invalid_request")
		return
	}
	s.apply(w, r, domain.Goto(index))
}

func (s *Server[S]) apply(w http.ResponseWriter, r *http.Request, action domain.Action) {
	st, err := s.Store.Dispatch(r.Context(), action)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrOutOfRange):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrInvalidPayload):
			status = http.StatusBadRequest
		default:
			s.logger.Error("Dispatch failed", "action", action.Type, "err", err)
		}
		writeError(w, status, err.Error(), observability.Reason(err))
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st), s.logger)
}

func toResponse[S any](st enhancer.State[S]) StateResponse[S] {
	resp := StateResponse[S]{
		Base: st.Base,
		Head: st.History.Head(),
		Len:  st.History.Len(),
	}
	if e, ok := st.History.Current(); ok {
		resp.Message = e.Message
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Reason: reason})
}
