package models

import "database/sql"

type SummaryStatistics struct {
	TotalResults  int64
	UniqueQueries int64
	UniqueURLs    int64
	AvgScore      sql.NullFloat64
	FirstSearch   sql.NullString
	LastSearch    sql.NullString
}

type QueryStatistics struct {
	Query       string
	ResultCount int64
	AvgScore    float64
}

type TableInfo struct {
	Name string
	Rows int64
}
