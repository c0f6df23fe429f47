// Package server exposes the functions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/callctx"
	"github.com/effective-security/quickai/config"
	"github.com/effective-security/quickai/functions"
	"github.com/effective-security/quickai/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/tidwall/sjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/quickai", "server")

// HeaderRequestID is the header of the request ID
const HeaderRequestID = "X-Request-ID"

// CORS headers of all responses
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// Server serves the functions of the registry
type Server struct {
	cfg      config.Server
	registry *functions.Registry

	lock     sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New returns the server for the registry
func New(cfg config.Server, registry *functions.Registry) *Server {
	cfg.BasePath = "/" + strings.Trim(values.StringsCoalesce(cfg.BasePath, config.DefaultBasePath), "/")
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = config.DefaultMaxBodySize
	}
	return &Server{
		cfg:      cfg,
		registry: registry,
	}
}

// Handler returns the HTTP handler of the functions
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+s.cfg.BasePath+"/tools", s.handleTools)
	mux.HandleFunc(s.cfg.BasePath+"/{function}", s.handleFunction)
	return mux
}

// Start listens on the configured address and serves until Close is called.
// It returns nil after Close.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", values.StringsCoalesce(s.cfg.ListenURL, config.DefaultListenURL))
	if err != nil {
		return errors.WithMessage(err, "failed to listen")
	}

	s.lock.Lock()
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}
	srv := s.server
	s.lock.Unlock()

	logger.KV(xlog.INFO,
		"status", "started",
		"addr", ln.Addr().String(),
		"base_path", s.cfg.BasePath,
	)

	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the listening address, empty before Start
func (s *Server) Addr() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close stops the server
func (s *Server) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.server != nil {
		if err := s.server.Close(); err != nil {
			return err
		}
		logger.KV(xlog.INFO, "status", "closed")
	}
	return nil
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed: "+r.Method)
		return
	}

	name := r.PathValue("function")
	f, err := s.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	requestID := values.StringsCoalesce(r.Header.Get(HeaderRequestID), callctx.NewRequestID())
	w.Header().Set(HeaderRequestID, requestID)
	ctx := callctx.WithCallContext(r.Context(), callctx.New(requestID, name))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusInternalServerError, errors.WithMessage(err, "failed to read request body").Error())
		return
	}

	res, err := f.Invoke(ctx, body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res)
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	list := make([]*tools.Descriptor, 0, len(s.registry.List()))
	for _, f := range s.registry.List() {
		d, err := f.Tool().Describe()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		list = append(list, d)
	}

	js, err := json.Marshal(list)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(js)
}

func setCORS(w http.ResponseWriter) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
}

// writeError writes the {"error": message} response
func writeError(w http.ResponseWriter, status int, msg string) {
	js, err := sjson.SetBytes([]byte(`{}`), "error", msg)
	if err != nil {
		js = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
}
