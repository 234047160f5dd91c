// Package httpapi serves the routes declared by api blocks over HTTP.
//
// A Server implements evaluator.RouteRegistrar. Each request runs the route's
// handler function with three extra bindings:
//
//	request_args    mapping of query parameters (first value of each)
//	request_json    the parsed JSON body, or null
//	request_method  the HTTP method
//
// The handler's result becomes the response: no return gives an empty 200,
// a string is sent as HTML, a mapping or list as JSON, and anything else as
// plain text. Errors become a 500 response with a JSON {"error": ...} body.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/evaluator"
	"github.com/hexza-lang/hexza/object"
)

// MaxBodyBytes limits the size of request bodies read for request_json.
const MaxBodyBytes = 10 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

type routeKey struct {
	method string
	path   string
}

// Server is an http.Handler dispatching to script handlers.
type Server struct {
	mu     sync.RWMutex
	routes map[routeKey]*evaluator.Function
	logger zerolog.Logger
}

var _ evaluator.RouteRegistrar = (*Server)(nil)

// New returns a Server with no routes.
func New(opts ...Option) *Server {
	s := &Server{
		routes: map[routeKey]*evaluator.Function{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register binds a handler to a method and path. A later registration of the
// same method and path replaces the earlier one.
func (s *Server) Register(method, path string, handler *evaluator.Function) error {
	if handler == nil {
		return fmt.Errorf("nil handler for %s %s", method, path)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("route path %q must start with /", path)
	}
	key := routeKey{method: strings.ToUpper(method), path: path}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.routes[key]; exists {
		s.logger.Warn().Str("method", key.method).Str("path", path).Msg("route replaced")
	}
	s.routes[key] = handler
	return nil
}

// Routes returns the registered routes as "METHOD /path" strings, sorted.
func (s *Server) Routes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routes := make([]string, 0, len(s.routes))
	for key := range s.routes {
		routes = append(routes, key.method+" "+key.path)
	}
	sort.Strings(routes)
	return routes
}

func (s *Server) lookup(method, path string) (*evaluator.Function, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if fn, ok := s.routes[routeKey{method: method, path: path}]; ok {
		return fn, nil
	}
	var allowed []string
	for key := range s.routes {
		if key.path == path {
			allowed = append(allowed, key.method)
		}
	}
	sort.Strings(allowed)
	return nil, allowed
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := uuid.NewV4()
	requestID := ""
	if err == nil {
		requestID = id.String()
		w.Header().Set("X-Request-Id", requestID)
	}
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.serve(rec, r)
	s.logger.Info().
		Str("request_id", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rec.status).
		Dur("duration", time.Since(start)).
		Msg("request")
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	fn, allowed := s.lookup(r.Method, r.URL.Path)
	if fn == nil {
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	bindings, err := requestBindings(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	value, returned, err := fn.Invoke(r.Context(), bindings)
	if err != nil {
		s.logger.Error().Err(err).Str("handler", fn.Name()).Msg("handler failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": errors.Message(err)})
		return
	}
	if err := writeResult(w, value, returned); err != nil {
		s.logger.Error().Err(err).Str("handler", fn.Name()).Msg("cannot encode response")
	}
}

func requestBindings(r *http.Request) (map[string]object.Object, error) {
	args := object.NewMap()
	query := r.URL.Query()
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args.Set(key, object.NewString(query.Get(key)))
	}

	// request_json is an empty map unless the body parses to a truthy value.
	var body object.Object = object.NewMap()
	if r.Body != nil {
		data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("cannot read request body: %w", err)
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			if parsed, err := object.FromJSON(data); err == nil && parsed.IsTruthy() {
				body = parsed
			}
		}
	}
	return map[string]object.Object{
		"request_args":   args,
		"request_json":   body,
		"request_method": object.NewString(r.Method),
	}, nil
}

func writeResult(w http.ResponseWriter, value object.Object, returned bool) error {
	if !returned {
		w.WriteHeader(http.StatusOK)
		return nil
	}
	switch v := value.(type) {
	case *object.String:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err := io.WriteString(w, v.Value())
		return err
	case *object.Map, *object.List:
		data, err := object.MarshalJSON(v)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(data)
		return err
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err := io.WriteString(w, value.String())
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ListenAndServe serves s on addr until ctx is cancelled, then shuts the
// server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Strs("routes", s.Routes()).Msg("serving api")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
