package api

import (
	"errors"
	"net/http"

	"github.com/arbebra14/hh-parser/internal/httpx"
	"github.com/arbebra14/hh-parser/internal/observability"
	"github.com/arbebra14/hh-parser/internal/store"
)

func (s *Server) handleVacancies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	vacancies, err := s.scraper.ScrapeVacancies(r.Context(), query)
	if err != nil {
		respondScrapeError(w, err)
		return
	}
	if vacancies == nil {
		vacancies = []store.Vacancy{}
	}
	respondJSON(w, http.StatusOK, vacancies)
}

func (s *Server) handleApplicants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	applicants, err := s.scraper.ScrapeApplicants(r.Context(), query)
	if err != nil {
		respondScrapeError(w, err)
		return
	}
	if applicants == nil {
		applicants = []store.Applicant{}
	}
	respondJSON(w, http.StatusOK, applicants)
}

// respondScrapeError maps an upstream non-200 to the equivalent status; every
// other failure surfaces as a 500.
func respondScrapeError(w http.ResponseWriter, err error) {
	var fe *httpx.FetchError
	if errors.As(err, &fe) && fe.Status > 0 {
		respondError(w, fe.Status, "error fetching data from hh.ru")
		return
	}
	respondError(w, http.StatusInternalServerError, "scrape failed: "+err.Error())
}

func (s *Server) handleVacancyAnalytics(w http.ResponseWriter, r *http.Request) {
	n, err := s.analytics.CountVacancies(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count vacancies: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"num_vacancies": n})
}

func (s *Server) handleApplicantAnalytics(w http.ResponseWriter, r *http.Request) {
	n, err := s.analytics.CountApplicants(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count applicants: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"num_applicants": n})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}
