package services

import (
	json "github.com/goccy/go-json"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"strings"
)

// ParseJSONResponse recovers a JSON value from free-form LLM output. It strips a
// markdown fence, then tries the outermost {...} span, then the outermost [...]
// span, and finally the whole cleaned text.
func ParseJSONResponse(step, response string) (any, error) {
	cleaned := stripCodeFence(response)

	if value, ok := parseSpan(cleaned, "{", "}"); ok {
		return value, nil
	}

	if value, ok := parseSpan(cleaned, "[", "]"); ok {
		return value, nil
	}

	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil, &errs.ParseError{Step: step, Raw: response, Err: err}
	}
	return value, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func parseSpan(s, open, close string) (any, bool) {
	start := strings.Index(s, open)
	end := strings.LastIndex(s, close)
	if start == -1 || end == -1 || start >= end {
		return nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(s[start:end+1]), &value); err != nil {
		return nil, false
	}
	return value, true
}
