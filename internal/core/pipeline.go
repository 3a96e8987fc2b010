package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/arbebra14/hh-parser/internal/charset"
	"github.com/arbebra14/hh-parser/internal/httpx"
	"github.com/arbebra14/hh-parser/internal/observability"
	"github.com/arbebra14/hh-parser/internal/scraper"
	"github.com/arbebra14/hh-parser/internal/store"
)

// Fetcher is what the pipeline needs from the HTTP layer.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, int, error)
}

// Storage is the persistence gateway consumed by the pipeline. Each insert is
// its own atomic unit; already-inserted records survive a later failure.
type Storage interface {
	InsertVacancy(ctx context.Context, v store.Vacancy) (store.Vacancy, error)
	InsertApplicant(ctx context.Context, a store.Applicant) (store.Applicant, error)
}

// Pipeline composes fetch, encoding detection, extraction, normalization and
// persistence for one record kind per invocation. A run is strictly
// sequential; concurrent runs share nothing but the storage pool.
type Pipeline struct {
	fetcher  Fetcher
	store    Storage
	logger   *slog.Logger
	baseURL  string
	dumpDir  string
	profiles map[scraper.Kind]scraper.Profile
}

func NewPipeline(fetcher Fetcher, st Storage, logger *slog.Logger, baseURL, dumpDir string) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		fetcher: fetcher,
		store:   st,
		logger:  logger,
		baseURL: baseURL,
		dumpDir: dumpDir,
		profiles: map[scraper.Kind]scraper.Profile{
			scraper.KindVacancy:   scraper.DefaultProfile(scraper.KindVacancy),
			scraper.KindApplicant: scraper.DefaultProfile(scraper.KindApplicant),
		},
	}
}

// SetProfile overrides the selector profile for a kind.
func (p *Pipeline) SetProfile(kind scraper.Kind, profile scraper.Profile) {
	p.profiles[kind] = profile
}

// ScrapeVacancies runs the vacancy pipeline and returns the persisted records
// in document order. Blocks missing required fields are skipped, not errors.
func (p *Pipeline) ScrapeVacancies(ctx context.Context, query string) ([]store.Vacancy, error) {
	blocks, err := p.fetchBlocks(ctx, scraper.KindVacancy, query)
	if err != nil {
		return nil, err
	}

	vacancies := []store.Vacancy{}
	for _, block := range blocks {
		v, ok := scraper.NormalizeVacancy(block)
		if !ok {
			observability.IncBlocksDropped(string(scraper.KindVacancy))
			p.logger.Warn("skipping vacancy with missing title or description")
			continue
		}
		saved, err := p.store.InsertVacancy(ctx, v)
		if err != nil {
			observability.IncError(observability.ClassifyScrapeError(err), "pipeline")
			return nil, err
		}
		observability.IncRecordsPersisted(string(scraper.KindVacancy))
		vacancies = append(vacancies, saved)
	}

	p.logger.Info("vacancy scrape finished", "query", query, "persisted", len(vacancies))
	return vacancies, nil
}

// ScrapeApplicants runs the applicant pipeline against the resume search.
func (p *Pipeline) ScrapeApplicants(ctx context.Context, query string) ([]store.Applicant, error) {
	blocks, err := p.fetchBlocks(ctx, scraper.KindApplicant, query)
	if err != nil {
		return nil, err
	}

	applicants := []store.Applicant{}
	for _, block := range blocks {
		a, ok := scraper.NormalizeApplicant(block)
		if !ok {
			observability.IncBlocksDropped(string(scraper.KindApplicant))
			p.logger.Warn("skipping applicant with missing name")
			continue
		}
		saved, err := p.store.InsertApplicant(ctx, a)
		if err != nil {
			observability.IncError(observability.ClassifyScrapeError(err), "pipeline")
			return nil, err
		}
		observability.IncRecordsPersisted(string(scraper.KindApplicant))
		applicants = append(applicants, saved)
	}

	p.logger.Info("applicant scrape finished", "query", query, "persisted", len(applicants))
	return applicants, nil
}

func (p *Pipeline) fetchBlocks(ctx context.Context, kind scraper.Kind, query string) ([]scraper.FieldBlock, error) {
	searchURL := scraper.SearchURL(p.baseURL, kind, query)
	p.logger.Info("fetching search page", "kind", string(kind), "url", searchURL)

	body, status, err := p.fetcher.FetchBytes(ctx, searchURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "fetcher")
		return nil, fmt.Errorf("fetch %s: %w", searchURL, err)
	}
	if status != http.StatusOK {
		observability.IncError(observability.ErrorUpstream, "fetcher")
		p.logger.Error("upstream returned non-200", "kind", string(kind), "status", status)
		return nil, &httpx.FetchError{Status: status}
	}
	observability.IncPagesFetched(string(kind))

	label := charset.Detect(body)
	decoded := charset.Decode(body, label)
	p.logger.Info("decoded search page", "kind", string(kind), "encoding", label, "bytes", len(body))

	p.dumpPage(kind, decoded)

	blocks, err := scraper.ExtractBlocks(decoded, p.profiles[kind])
	if err != nil {
		observability.IncError(observability.ErrorParsing, "extractor")
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	return blocks, nil
}

// dumpPage saves the decoded markup as a debugging artifact when a dump
// directory is configured. Failures are logged and ignored.
func (p *Pipeline) dumpPage(kind scraper.Kind, decoded string) {
	if p.dumpDir == "" {
		return
	}
	path := filepath.Join(p.dumpDir, string(kind)+"_page.html")
	if err := os.WriteFile(path, []byte(decoded), 0o644); err != nil {
		p.logger.Warn("failed to dump page", "path", path, "error", err)
	}
}
