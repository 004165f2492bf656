// Package server exposes the management HTTP API: user and profile CRUD
// plus read-back of generated calendar documents. The sync pipeline itself
// never goes through this surface.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wishcal/wishcal/pkg/artifact"
	"github.com/wishcal/wishcal/pkg/storage"
)

type Server struct {
	DB        *storage.DB
	Artifacts artifact.Store
	Token     string
}

func New(db *storage.DB, artifacts artifact.Store, token string) *Server {
	return &Server{
		DB:        db,
		Artifacts: artifacts,
		Token:     token,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(s.bearerAuth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Delete("/users/{id}", s.handleDeleteUser)
		r.Get("/users/{userID}/steam-profiles", s.handleListProfiles)

		r.Post("/steam-profiles", s.handleCreateProfile)
		r.Put("/steam-profiles/{id}", s.handleUpdateProfile)
		r.Delete("/steam-profiles/{id}", s.handleDeleteProfile)
		r.Get("/steam-profiles/{id}/calendar", s.handleGetCalendar)
	})

	return r
}

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != s.Token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
