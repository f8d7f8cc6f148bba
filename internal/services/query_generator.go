package services

import "fmt"

// dorkTemplate requires the role in the title, the company in one of the usual
// profile headline patterns, and restricts hits to profile URLs.
const dorkTemplate = `"intitle:"%[1]s" AND ("%[2]s" OR "@%[2]s" OR "| %[2]s" OR "- %[2]s" OR "at %[2]s" OR "(%[2]s)" OR ": %[2]s") inurl:/in/"`

func DorkQuery(role, company string) string {
	return fmt.Sprintf(dorkTemplate, role, company)
}

// GenerateDorkQueries returns one query per (role, company) pair, roles outer and companies inner.
func GenerateDorkQueries(roles, companies []string) []string {
	queries := make([]string, 0, len(roles)*len(companies))
	for _, role := range roles {
		for _, company := range companies {
			queries = append(queries, DorkQuery(role, company))
		}
	}
	return queries
}
