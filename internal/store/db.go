package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// Vacancy is a persisted vacancy search result. EmploymentFormat and Salary
// are nullable: the source page often omits them.
type Vacancy struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Skills           string  `json:"skills"`
	EmploymentFormat *string `json:"employment_format"`
	Salary           *int    `json:"salary"`
}

// Applicant is a persisted resume search result.
type Applicant struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Skills string `json:"skills"`
}

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing connection; used by tests.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// InsertVacancy writes one vacancy in its own transaction and returns it with
// the generated id. Each insert commits independently so a later failure does
// not roll back earlier records.
func (s *Store) InsertVacancy(ctx context.Context, v Vacancy) (Vacancy, error) {
	err := s.db.QueryRowContext(ctx, `
INSERT INTO vacancies (title, description, skills, employment_format, salary)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, v.Title, v.Description, v.Skills, v.EmploymentFormat, v.Salary).Scan(&v.ID)
	if err != nil {
		return Vacancy{}, fmt.Errorf("insert vacancy: %w", err)
	}
	return v, nil
}

// InsertApplicant writes one applicant in its own transaction and returns it
// with the generated id.
func (s *Store) InsertApplicant(ctx context.Context, a Applicant) (Applicant, error) {
	err := s.db.QueryRowContext(ctx, `
INSERT INTO applicants (name, skills)
VALUES ($1, $2)
RETURNING id
`, a.Name, a.Skills).Scan(&a.ID)
	if err != nil {
		return Applicant{}, fmt.Errorf("insert applicant: %w", err)
	}
	return a, nil
}

func (s *Store) CountVacancies(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vacancies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vacancies: %w", err)
	}
	return n, nil
}

func (s *Store) CountApplicants(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count applicants: %w", err)
	}
	return n, nil
}
