package exa

import (
	"fmt"
	"strings"
)

type Livecrawl string

const (
	LivecrawlNever    Livecrawl = "never"
	LivecrawlFallback Livecrawl = "fallback"
	LivecrawlAlways   Livecrawl = "always"
)

type SearchParameters struct {
	Query          string
	NumResults     int
	IncludeDomains []string
	IncludeText    []string
	ExcludeText    []string
	Livecrawl      Livecrawl
	Category       string
}

// WithQuery returns a copy of the parameters bound to query and limited to numResults.
func (s SearchParameters) WithQuery(query string, numResults int) SearchParameters {
	s.Query = query
	s.NumResults = numResults
	return s
}

func (s SearchParameters) Validate() error {

	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}

	if s.NumResults <= 0 || s.NumResults > 100 {
		return fmt.Errorf("num results must be between 1 and 100")
	}

	switch s.Livecrawl {
	case "", LivecrawlNever, LivecrawlFallback, LivecrawlAlways:
	default:
		return fmt.Errorf("unknown livecrawl mode %q", s.Livecrawl)
	}

	return nil
}

type extras struct {
	Links int `json:"links"`
}

type contents struct {
	Text      bool      `json:"text"`
	Livecrawl Livecrawl `json:"livecrawl,omitempty"`
	Extras    *extras   `json:"extras,omitempty"`
}

type searchRequest struct {
	Query          string   `json:"query"`
	NumResults     int      `json:"numResults"`
	IncludeDomains []string `json:"includeDomains,omitempty"`
	IncludeText    []string `json:"includeText,omitempty"`
	ExcludeText    []string `json:"excludeText,omitempty"`
	Category       string   `json:"category,omitempty"`
	Contents       contents `json:"contents"`
}

func (s SearchParameters) toRequest() searchRequest {
	return searchRequest{
		Query:          s.Query,
		NumResults:     s.NumResults,
		IncludeDomains: s.IncludeDomains,
		IncludeText:    s.IncludeText,
		ExcludeText:    s.ExcludeText,
		Category:       s.Category,
		Contents: contents{
			Text:      true,
			Livecrawl: s.Livecrawl,
			Extras:    &extras{Links: 1},
		},
	}
}
