package scraper

import (
	"net/url"
	"strings"
)

// Kind selects which selector profile, required-field rule and storage table
// apply to a scrape run.
type Kind string

const (
	KindVacancy   Kind = "vacancy"
	KindApplicant Kind = "applicant"
)

// Field names used as FieldBlock keys.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldName        = "name"
	FieldSkills      = "skills"
	FieldEmployment  = "employment_format"
	FieldSalary      = "salary"
)

// Profile maps field names to CSS selectors within one search-result page.
// Keeping it as data means structural drift on the site is a configuration
// change, not a code change.
type Profile struct {
	// Item enumerates candidate record blocks on the page.
	Item string
	// Fields resolve to a single value inside an item; a missing match means
	// the field is absent.
	Fields map[string]string
	// Lists resolve to zero or more values inside an item; no matches means
	// an empty list, not an absent field.
	Lists map[string]string
}

// DefaultProfile returns the selector set for the current hh.ru DOM.
func DefaultProfile(kind Kind) Profile {
	switch kind {
	case KindApplicant:
		return Profile{
			Item: ".resume-serp-item",
			Fields: map[string]string{
				FieldName: ".resume-search-item__fullname",
			},
			Lists: map[string]string{
				FieldSkills: ".bloko-tag__section_text",
			},
		}
	default:
		return Profile{
			Item: ".vacancy-serp-item",
			Fields: map[string]string{
				FieldTitle:       ".vacancy-serp-item__title",
				FieldDescription: ".vacancy-serp-item__snippet",
				FieldEmployment:  ".vacancy-serp-item__meta-info",
				FieldSalary:      ".vacancy-serp-item__sidebar",
			},
			Lists: map[string]string{
				FieldSkills: ".bloko-tag__section_text",
			},
		}
	}
}

// SearchURL builds the search page URL for a kind and free-text query.
func SearchURL(baseURL string, kind Kind, query string) string {
	base := strings.TrimRight(baseURL, "/")
	path := "/search/vacancy"
	if kind == KindApplicant {
		path = "/search/resume"
	}
	return base + path + "?text=" + url.QueryEscape(query)
}
