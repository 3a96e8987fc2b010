package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbebra14/hh-parser/internal/httpx"
	"github.com/arbebra14/hh-parser/internal/store"
)

type fakeFetcher struct {
	body   []byte
	status int
	err    error
	urls   []string
}

func (f *fakeFetcher) FetchBytes(_ context.Context, url string) ([]byte, int, error) {
	f.urls = append(f.urls, url)
	return f.body, f.status, f.err
}

type memStore struct {
	vacancies  []store.Vacancy
	applicants []store.Applicant
	insertErr  error
}

func (m *memStore) InsertVacancy(_ context.Context, v store.Vacancy) (store.Vacancy, error) {
	if m.insertErr != nil {
		return store.Vacancy{}, m.insertErr
	}
	v.ID = len(m.vacancies) + 1
	m.vacancies = append(m.vacancies, v)
	return v, nil
}

func (m *memStore) InsertApplicant(_ context.Context, a store.Applicant) (store.Applicant, error) {
	if m.insertErr != nil {
		return store.Applicant{}, m.insertErr
	}
	a.ID = len(m.applicants) + 1
	m.applicants = append(m.applicants, a)
	return a, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const searchPage = `
<div class="vacancy-serp-item">
  <a class="vacancy-serp-item__title">Engineer</a>
  <div class="vacancy-serp-item__snippet">Build stuff</div>
</div>
<div class="vacancy-serp-item">
  <div class="vacancy-serp-item__snippet">No title, must be skipped</div>
</div>
<div class="vacancy-serp-item">
  <a class="vacancy-serp-item__title">Go Developer</a>
  <div class="vacancy-serp-item__snippet">Backend work</div>
  <span class="bloko-tag__section_text">Go</span>
  <span class="bloko-tag__section_text">SQL</span>
  <div class="vacancy-serp-item__sidebar">120 000 руб.</div>
</div>`

func TestScrapeVacancies_PersistsInDocumentOrder(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(searchPage), status: http.StatusOK}
	st := &memStore{}
	p := NewPipeline(fetcher, st, testLogger(), "https://hh.ru", "")

	got, err := p.ScrapeVacancies(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, got, 2, "block without a title is dropped")

	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "Engineer", got[0].Title)
	assert.Nil(t, got[0].Salary)
	assert.Nil(t, got[0].EmploymentFormat)

	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, "Go Developer", got[1].Title)
	assert.Equal(t, "Go, SQL", got[1].Skills)
	require.NotNil(t, got[1].Salary)
	assert.Equal(t, 120000, *got[1].Salary)

	require.Len(t, fetcher.urls, 1)
	assert.Equal(t, "https://hh.ru/search/vacancy?text=golang", fetcher.urls[0])
}

func TestScrapeVacancies_UpstreamFailureAborts(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte("maintenance"), status: http.StatusServiceUnavailable}
	st := &memStore{}
	p := NewPipeline(fetcher, st, testLogger(), "https://hh.ru", "")

	_, err := p.ScrapeVacancies(context.Background(), "golang")
	require.Error(t, err)

	var fe *httpx.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
	assert.Empty(t, st.vacancies, "no records inserted on upstream failure")
}

func TestScrapeVacancies_NoDeduplication(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(searchPage), status: http.StatusOK}
	st := &memStore{}
	p := NewPipeline(fetcher, st, testLogger(), "https://hh.ru", "")

	first, err := p.ScrapeVacancies(context.Background(), "golang")
	require.NoError(t, err)
	second, err := p.ScrapeVacancies(context.Background(), "golang")
	require.NoError(t, err)

	assert.Len(t, st.vacancies, len(first)+len(second), "identical runs insert duplicates")
}

func TestScrapeVacancies_EmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte("<html><body></body></html>"), status: http.StatusOK}
	st := &memStore{}
	p := NewPipeline(fetcher, st, testLogger(), "https://hh.ru", "")

	got, err := p.ScrapeVacancies(context.Background(), "golang")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, st.vacancies)
}

func TestScrapeVacancies_StoreFailurePropagates(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(searchPage), status: http.StatusOK}
	st := &memStore{insertErr: errors.New("insert vacancy: connection reset")}
	p := NewPipeline(fetcher, st, testLogger(), "https://hh.ru", "")

	_, err := p.ScrapeVacancies(context.Background(), "golang")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert vacancy")
}

func TestScrapeApplicants(t *testing.T) {
	page := `
<div class="resume-serp-item">
  <span class="resume-search-item__fullname">Ivan Petrov</span>
  <span class="bloko-tag__section_text">Go</span>
  <span class="bloko-tag__section_text">Docker</span>
</div>
<div class="resume-serp-item">
  <span class="bloko-tag__section_text">orphan skills, no name</span>
</div>`
	fetcher := &fakeFetcher{body: []byte(page), status: http.StatusOK}
	st := &memStore{}
	p := NewPipeline(fetcher, st, testLogger(), "https://hh.ru", "")

	got, err := p.ScrapeApplicants(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ivan Petrov", got[0].Name)
	assert.Equal(t, "Go, Docker", got[0].Skills)

	require.Len(t, fetcher.urls, 1)
	assert.True(t, strings.HasSuffix(fetcher.urls[0], "/search/resume?text=golang"))
}

func TestScrapeVacancies_DumpsPage(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{body: []byte(searchPage), status: http.StatusOK}
	p := NewPipeline(fetcher, &memStore{}, testLogger(), "https://hh.ru", dir)

	_, err := p.ScrapeVacancies(context.Background(), "golang")
	require.NoError(t, err)
	assert.FileExists(t, dir+"/vacancy_page.html")
}
