package server

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"kpp/internal/export"
)

const (
	defaultDocsDir    = "docs"
	defaultSessionTTL = 2 * time.Hour
	defaultAddr       = ":8080"
	defaultTitle      = "Documents"
)

// Config describes server wiring and runtime behaviour.
type Config struct {
	Addr       string
	DocsDir    string
	SessionTTL time.Duration
	Title      string
	// Printer serves PDF exports; nil disables them.
	Printer export.Printer
	Logger  *log.Logger
	Clock   func() time.Time
}

// DefaultConfig populates configuration from environment variables.
func DefaultConfig() Config {
	cfg := Config{
		Title:   defaultTitle,
		Logger:  log.Default(),
		Clock:   time.Now,
		DocsDir: strings.TrimSpace(os.Getenv("KPP_DOCS_DIR")),
	}
	if cfg.DocsDir == "" {
		cfg.DocsDir = defaultDocsDir
	}
	if raw := strings.TrimSpace(os.Getenv("KPP_SESSION_TTL")); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			cfg.SessionTTL = ttl
		}
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Addr = ":" + port
	} else {
		cfg.Addr = defaultAddr
	}
	return cfg
}

// Server exposes documents as viewer sessions over HTTP.
type Server struct {
	cfg      Config
	router   chi.Router
	handler  http.Handler
	logger   *log.Logger
	sessions *sessionStore
	docs     *docCache
	configs  *docConfigStore
	clock    func() time.Time
}

// New wires a new server with the provided configuration.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.DocsDir == "" {
		cfg.DocsDir = defaultDocsDir
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		sessions: newSessionStore(cfg.SessionTTL, cfg.Clock),
		docs:     newDocCache(cfg.DocsDir, cfg.Clock),
		configs:  newDocConfigStore(cfg.DocsDir),
		clock:    cfg.Clock,
	}
	s.router = s.buildRouter()
	s.handler = withLogging(s.logger, s.router)
	return s
}

// Handler exposes the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler { return s }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ping", s.handlePing)
	r.Get("/doc/{name}", s.handleOpen)
	r.Get("/doc/{name}/export.pdf", s.handleExport)
	r.Get("/s/{sid}", s.handleView)
	r.Get("/s/{sid}/key/{key}", s.handleKey)
	r.Get("/s/{sid}/unit/{n}", s.handleUnit)
	r.Get("/s/{sid}/resize", s.handleResize)
	return r
}
