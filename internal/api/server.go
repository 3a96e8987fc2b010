package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arbebra14/hh-parser/internal/store"
)

// Scraper triggers a scrape-parse-persist run for one record kind.
type Scraper interface {
	ScrapeVacancies(ctx context.Context, query string) ([]store.Vacancy, error)
	ScrapeApplicants(ctx context.Context, query string) ([]store.Applicant, error)
}

// Analytics exposes row counts for the analytics endpoints.
type Analytics interface {
	CountVacancies(ctx context.Context) (int, error)
	CountApplicants(ctx context.Context) (int, error)
}

type Server struct {
	router    *chi.Mux
	scraper   Scraper
	analytics Analytics
}

func NewServer(scraper Scraper, analytics Analytics) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		scraper:   scraper,
		analytics: analytics,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/vacancies", s.handleVacancies)
	s.router.Get("/applicants", s.handleApplicants)
	s.router.Get("/analytics/vacancies", s.handleVacancyAnalytics)
	s.router.Get("/analytics/applicants", s.handleApplicantAnalytics)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
