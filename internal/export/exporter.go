// Package export renders the lead store into a multi-sheet xlsx workbook.
package export

import (
	"context"
	"fmt"
	"github.com/maxaizer/lead-dorker/internal/config"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"github.com/maxaizer/lead-dorker/internal/logger"
	"github.com/maxaizer/lead-dorker/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"
)

const (
	SheetResults    = "Search Results"
	SheetSessions   = "Search Sessions"
	SheetSummary    = "Summary Statistics"
	SheetTopQueries = "Top Queries"
	SheetTopURLs    = "Top URLs"
)

const timeLayout = "2006-01-02 15:04:05"

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

type Exporter struct {
	connectionString string
	cfg              config.ExportConfig
	now              func() time.Time
}

func NewExporter(connectionString string, cfg config.ExportConfig) *Exporter {
	return &Exporter{connectionString: connectionString, cfg: cfg, now: time.Now}
}

// DefaultFileName returns the timestamped workbook path inside the configured output directory.
func (e *Exporter) DefaultFileName() string {
	name := fmt.Sprintf("linkedin_leads_export_%s.xlsx", e.now().Format("20060102_150405"))
	return filepath.Join(e.cfg.OutputDir, name)
}

// Export writes the workbook to outputFile, or to DefaultFileName when outputFile is empty,
// and returns the written path. A missing store yields errs.ErrMissingResource and no file.
func (e *Exporter) Export(ctx context.Context, outputFile string) (string, error) {

	if outputFile == "" {
		outputFile = e.DefaultFileName()
	}

	dbContext, err := repositories.OpenExisting(e.connectionString)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("can't open store: %v", err)
		return "", err
	}
	defer func() { _ = dbContext.Close() }()

	reports := repositories.NewReportsRepository(dbContext.DB)
	logStoreInfo(ctx, reports, repositories.DatabaseFile(e.connectionString))

	log.Info("reading data from database...")
	sheets, err := e.collect(ctx, dbContext, reports)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("can't read store: %v", err)
		return "", err
	}
	log.Info("data loaded successfully")
	for _, s := range sheets {
		log.Infof("   - %s: %d rows", s.name, len(s.rows))
	}

	log.Infof("creating Excel file: %s", outputFile)
	if err = e.write(outputFile, sheets); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeExport).Errorf("can't write workbook: %v", err)
		return "", err
	}

	log.Infof("export summary: file=%s sheets=%d results=%d sessions=%d",
		outputFile, len(sheets), len(sheets[0].rows), len(sheets[1].rows))
	return outputFile, nil
}

func (e *Exporter) collect(ctx context.Context, dbContext *repositories.DbContext,
	reports *repositories.Reports) ([]sheet, error) {

	results, err := repositories.NewResultsRepository(dbContext.DB).GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "search results")
	}
	sessions, err := repositories.NewSessionsRepository(dbContext.DB).GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "search sessions")
	}
	summary, err := reports.Summary(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "summary statistics")
	}
	topQueries, err := reports.TopQueries(ctx, e.cfg.TopQueriesLimit)
	if err != nil {
		return nil, errors.Wrap(err, "top queries")
	}
	topResults, err := reports.TopResults(ctx, e.cfg.TopResultsLimit)
	if err != nil {
		return nil, errors.Wrap(err, "top urls")
	}

	return []sheet{
		resultsSheet(results),
		sessionsSheet(sessions),
		summarySheet(summary),
		topQueriesSheet(topQueries),
		topURLsSheet(topResults),
	}, nil
}

func resultsSheet(results []models.SearchResult) sheet {
	s := sheet{
		name:   SheetResults,
		header: []string{"query", "title", "url", "snippet", "published_date", "author", "score", "created_at"},
	}
	for _, r := range results {
		s.rows = append(s.rows, []interface{}{
			r.Query, r.Title, r.URL, r.Snippet, r.PublishedDate, r.Author, r.Score, r.CreatedAt.Format(timeLayout),
		})
	}
	return s
}

func sessionsSheet(sessions []models.SearchSession) sheet {
	s := sheet{
		name:   SheetSessions,
		header: []string{"user_query", "total_queries", "queries_searched", "created_at"},
	}
	for _, session := range sessions {
		s.rows = append(s.rows, []interface{}{
			session.UserQuery, session.TotalQueries, session.QueriesSearched, session.CreatedAt.Format(timeLayout),
		})
	}
	return s
}

func summarySheet(summary models.SummaryStatistics) sheet {
	row := []interface{}{summary.TotalResults, summary.UniqueQueries, summary.UniqueURLs, nil, nil, nil}
	if summary.AvgScore.Valid {
		row[3] = summary.AvgScore.Float64
	}
	if summary.FirstSearch.Valid {
		row[4] = summary.FirstSearch.String
	}
	if summary.LastSearch.Valid {
		row[5] = summary.LastSearch.String
	}
	return sheet{
		name:   SheetSummary,
		header: []string{"total_results", "unique_queries", "unique_urls", "avg_score", "first_search", "last_search"},
		rows:   [][]interface{}{row},
	}
}

func topQueriesSheet(stats []models.QueryStatistics) sheet {
	s := sheet{name: SheetTopQueries, header: []string{"query", "result_count", "avg_score"}}
	for _, q := range stats {
		s.rows = append(s.rows, []interface{}{q.Query, q.ResultCount, q.AvgScore})
	}
	return s
}

func topURLsSheet(results []models.SearchResult) sheet {
	s := sheet{name: SheetTopURLs, header: []string{"title", "url", "snippet", "score", "query"}}
	for _, r := range results {
		s.rows = append(s.rows, []interface{}{r.Title, r.URL, r.Snippet, r.Score, r.Query})
	}
	return s
}

func (e *Exporter) write(outputFile string, sheets []sheet) error {

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets {
		var err error
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.name)
		} else {
			_, err = f.NewSheet(s.name)
		}
		if err != nil {
			return err
		}
		if err = e.writeSheet(f, s); err != nil {
			return errors.Wrapf(err, "sheet %q", s.name)
		}
	}
	f.SetActiveSheet(0)

	if dir := filepath.Dir(outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return f.SaveAs(outputFile)
}

func (e *Exporter) writeSheet(f *excelize.File, s sheet) error {

	widths := make([]int, len(s.header))
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
		for col, value := range row {
			if value == nil {
				continue
			}
			widths[col] = max(widths[col], utf8.RuneCountInString(fmt.Sprint(value)))
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err = f.SetColWidth(s.name, col, col, columnWidth(width, e.cfg.MaxColumnWidth)); err != nil {
			return err
		}
	}

	lastCell, err := excelize.CoordinatesToCellName(len(s.header), len(s.rows)+1)
	if err != nil {
		return err
	}
	return f.AutoFilter(s.name, "A1:"+lastCell, nil)
}

// columnWidth pads the longest value by two characters and caps it.
func columnWidth(longest int, limit float64) float64 {
	return min(float64(longest+2), limit)
}

func logStoreInfo(ctx context.Context, reports *repositories.Reports, path string) {

	tables, err := reports.Tables(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("error reading database: %v", err)
		return
	}

	log.Infof("database information: %s", path)
	for _, table := range tables {
		log.Infof("   %s: %d rows", table.Name, table.Rows)
	}

	summary, err := reports.Summary(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("error reading database: %v", err)
		return
	}
	if summary.TotalResults > 0 {
		log.Infof("recent activity: total results %d, unique queries %d, last search %s",
			summary.TotalResults, summary.UniqueQueries, summary.LastSearch.String)
	}
}
