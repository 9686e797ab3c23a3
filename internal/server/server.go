// Package server assembles the HTTP API of the lesson studio.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/generation"
	"github.com/ziadkadry99/clil-studio/internal/library"
	"github.com/ziadkadry99/clil-studio/internal/logger"
)

// requestTimeout bounds every route except the streaming ones.
const requestTimeout = 60 * time.Second

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Deps are the feature services the server mounts. Library and Issuer may
// be nil, which leaves the lesson and auth routes out.
type Deps struct {
	Generation  *generation.Service
	Library     *library.Store
	Issuer      *auth.Issuer
	UserinfoURL string
	Log         *logger.Logger
}

type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes mounted.
func New(cfg Config, deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.UserinfoURL == "" {
		deps.UserinfoURL = auth.GoogleUserinfoURL
	}
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.deps.Generation != nil {
		generation.RegisterStreamRoutes(r, s.deps.Generation)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		if s.deps.Generation != nil {
			generation.RegisterRequestRoutes(r, s.deps.Generation)
		}
		if s.deps.Issuer != nil {
			auth.RegisterRoutes(r, s.deps.Issuer, s.deps.UserinfoURL)
			if s.deps.Library != nil {
				library.RegisterRoutes(r, s.deps.Library, s.deps.Issuer)
			}
		}
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.deps.Log.Info("clilstudio server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
