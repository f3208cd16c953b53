// Package api exposes the converter over HTTP: service info, health, and
// multipart PDF upload returning an XLSX attachment.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/pdfsheet/convert"
	"github.com/hazyhaar/pdfsheet/shield"
)

// Info identifies the service in GET / and GET /health.
type Info struct {
	Name    string // e.g. "pdf-to-excel"
	Title   string // e.g. "PDF to Excel Converter"
	Version string
}

// Options configures the HTTP surface.
type Options struct {
	Info           Info
	MaxUpload      int64         // bytes, default 50 MiB
	CORSOrigins    []string      // empty disables CORS headers
	RequestTimeout time.Duration // 0 disables the per-request timeout
	MaxConcurrent  int           // concurrent conversions, 0 = unlimited

	// MCP, when set, is served over streamable HTTP at MCPPath.
	MCP     *mcp.Server
	MCPPath string

	Logger *slog.Logger
}

// Server routes requests to a Converter.
type Server struct {
	conv   *convert.Converter
	opts   Options
	router chi.Router
}

// New builds the router.
func New(conv *convert.Converter, opts Options) *Server {
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 50 << 20
	}
	if opts.MCPPath == "" {
		opts.MCPPath = "/mcp"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{conv: conv, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	for _, mw := range shield.DefaultAPIStack(shield.StackConfig{
		MaxBody:        s.opts.MaxUpload,
		AllowedOrigins: s.opts.CORSOrigins,
		Logger:         s.opts.Logger,
	}) {
		r.Use(mw)
	}

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.opts.RequestTimeout))
		}
		if n := s.opts.MaxConcurrent; n > 0 {
			r.Use(middleware.ThrottleBacklog(n, n*4, s.opts.RequestTimeout+time.Second))
		}
		r.Post("/convert", s.handleConvert)
	})

	if s.opts.MCP != nil {
		srv := s.opts.MCP
		r.Handle(s.opts.MCPPath, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return srv
		}, nil))
	}
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
