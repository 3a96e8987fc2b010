package scraper

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/arbebra14/hh-parser/internal/store"
)

const salarySuffix = "руб."

// NormalizeVacancy maps an extracted block into a vacancy record. Blocks
// missing title or description are dropped: the second return is false and
// the caller skips them. All other fields default rather than fail.
func NormalizeVacancy(block FieldBlock) (store.Vacancy, bool) {
	title, _ := block.First(FieldTitle)
	description, _ := block.First(FieldDescription)
	if title == "" || description == "" {
		return store.Vacancy{}, false
	}

	v := store.Vacancy{
		Title:       title,
		Description: description,
		Skills:      joinSkills(block[FieldSkills]),
	}
	if meta, ok := block.First(FieldEmployment); ok {
		v.EmploymentFormat = &meta
	}
	if sidebar, ok := block.First(FieldSalary); ok {
		v.Salary = ParseSalary(sidebar)
	}
	return v, true
}

// NormalizeApplicant maps an extracted block into an applicant record.
// Blocks missing the name are dropped.
func NormalizeApplicant(block FieldBlock) (store.Applicant, bool) {
	name, _ := block.First(FieldName)
	if name == "" {
		return store.Applicant{}, false
	}
	return store.Applicant{
		Name:   name,
		Skills: joinSkills(block[FieldSkills]),
	}, true
}

// ParseSalary coerces sidebar text like "95 000 руб." into an integer. The
// currency suffix and all whitespace (including NBSP) are stripped before the
// parse; any remainder that is not a plain non-negative integer yields nil.
// Ranges and foreign currencies degrade to "unknown salary" by design.
func ParseSalary(text string) *int {
	cleaned := strings.ReplaceAll(text, salarySuffix, "")
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cleaned)

	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func joinSkills(tokens []string) string {
	return strings.Join(tokens, ", ")
}
