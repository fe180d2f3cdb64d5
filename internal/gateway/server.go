package gateway

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/athena-agent/athena/internal/agents"
	"github.com/athena-agent/athena/internal/events"
	"github.com/athena-agent/athena/internal/gateway/ws"
	"github.com/athena-agent/athena/internal/skills"
	"github.com/athena-agent/athena/internal/slash"
)

// ServiceName identifies the API in health responses.
const ServiceName = "athena-agent-api"

// Config holds everything the gateway needs to serve requests.
type Config struct {
	Host        string
	Port        int
	Name        string
	Version     string
	CORSOrigins []string

	Bus      *events.Bus
	Skills   *skills.Registry
	Agents   *agents.Orchestrator
	Commands *slash.Dispatcher
}

// Server is the Athena gateway HTTP server.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	skills     *skills.Registry
	agents     *agents.Orchestrator
	commands   *slash.Dispatcher
	name       string
	version    string
	startedAt  time.Time
	cors       atomic.Pointer[cors.Cors]
}

// NewServer creates a new gateway server.
func NewServer(cfg Config) *Server {
	s := &Server{
		bus:       cfg.Bus,
		skills:    cfg.Skills,
		agents:    cfg.Agents,
		commands:  cfg.Commands,
		name:      cfg.Name,
		version:   cfg.Version,
		startedAt: time.Now(),
	}
	s.hub = ws.NewHub(cfg.Bus, ws.Services{
		Skills:   cfg.Skills,
		Agents:   cfg.Agents,
		Commands: cfg.Commands,
	})
	s.SetCORSOrigins(cfg.CORSOrigins)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.corsHandler)

	r.Get("/", s.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleAPIInfo)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", s.handleHealth)
			r.Get("/ready", s.handleReady)
			r.Get("/live", s.handleLive)
			r.Get("/info", s.handleInfo)
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", s.handleListSkills)
			r.Post("/search", s.handleSearchSkills)
			r.Get("/categories", s.handleCategories)
			r.Post("/install", s.handleInstallSkill)
			r.Get("/category/{category}", s.handleSkillsByCategory)
			r.Get("/{id}", s.handleGetSkill)
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", s.handleListAgents)
			r.Get("/stats", s.handleAgentStats)
			r.Post("/task", s.handleCreateTask)
			r.Get("/task/{id}", s.handleGetTask)
			r.Post("/task/{id}/execute", s.handleExecuteTask)
			r.Get("/{id}", s.handleGetAgent)
			r.Get("/{id}/skills", s.handleAgentSkills)
		})

		r.Route("/commands", func(r chi.Router) {
			r.Get("/", s.handleListCommands)
			r.Post("/execute", s.handleExecuteCommand)
			r.Get("/{name}", s.handleGetCommand)
		})

		r.Get("/events", s.handleEvents)
		r.Get("/ws", s.hub.ServeWS)
	})

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("Athena gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

// SetCORSOrigins swaps the allowed browser origins for both the CORS
// middleware and the WS origin check. It is safe to call while serving.
func (s *Server) SetCORSOrigins(origins []string) {
	s.cors.Store(cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.hub.SetOrigins(originHosts(origins)...)
}

func (s *Server) corsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.cors.Load().Handler(next).ServeHTTP(w, r)
	})
}

// originHosts turns CORS origins into the host patterns the WS upgrader
// checks against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
