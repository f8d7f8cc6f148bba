package models

import "time"

// SearchResult is one item returned by the search API for a dork query.
type SearchResult struct {
	ID            int    `gorm:"primaryKey"`
	Query         string `gorm:"not null"`
	Title         string
	URL           string `gorm:"column:url"`
	Snippet       string
	PublishedDate string
	Author        string
	Score         float64
	CreatedAt     time.Time `gorm:"index"`
}

func (SearchResult) TableName() string {
	return "search_results"
}

// SearchSession summarizes one end-to-end run.
type SearchSession struct {
	ID              int    `gorm:"primaryKey"`
	UserQuery       string `gorm:"not null"`
	TotalQueries    int
	QueriesSearched int
	CreatedAt       time.Time `gorm:"index"`
}

func (SearchSession) TableName() string {
	return "search_sessions"
}

func NewSearchSession(userQuery string, totalQueries, queriesSearched int) SearchSession {
	return SearchSession{
		UserQuery:       userQuery,
		TotalQueries:    totalQueries,
		QueriesSearched: queriesSearched,
	}
}
