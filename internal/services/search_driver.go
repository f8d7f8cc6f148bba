package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/maxaizer/lead-dorker/internal/clients/exa"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"github.com/maxaizer/lead-dorker/internal/domain/events"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"github.com/maxaizer/lead-dorker/internal/logger"
	"github.com/maxaizer/lead-dorker/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"time"
)

type searcher interface {
	Search(ctx context.Context, parameters exa.SearchParameters) ([]exa.Result, error)
}

type resultRepository interface {
	Add(ctx context.Context, results []models.SearchResult) error
}

type sessionRepository interface {
	Add(ctx context.Context, session models.SearchSession) error
}

type publisher interface {
	Publish(topic string, args ...interface{})
}

// SearchPolicy controls which generated queries are searched: the list is cut into
// windows of WindowSize and only the first SearchedPerWindow positions of each are used.
type SearchPolicy struct {
	WindowSize        int
	SearchedPerWindow int
	ResultsPerQuery   int
	Pause             time.Duration
}

func (p SearchPolicy) Validate() error {
	if p.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	if p.SearchedPerWindow < 0 || p.SearchedPerWindow > p.WindowSize {
		return fmt.Errorf("searched per window must be between 0 and window size")
	}
	if p.ResultsPerQuery <= 0 {
		return fmt.Errorf("results per query must be positive")
	}
	if p.Pause < 0 {
		return fmt.Errorf("pause must be non-negative")
	}
	return nil
}

// SelectedPositions returns the 0-based positions of an n-long query list that get searched.
func (p SearchPolicy) SelectedPositions(n int) []int {
	positions := make([]int, 0, n)
	for start := 0; start < n; start += p.WindowSize {
		end := min(start+p.SearchedPerWindow, n)
		for i := start; i < end; i++ {
			positions = append(positions, i)
		}
	}
	return positions
}

type SearchOutcome struct {
	QueriesSearched int
	TotalResults    int
}

type SearchDriver struct {
	searcher   searcher
	results    resultRepository
	sessions   sessionRepository
	bus        publisher
	policy     SearchPolicy
	parameters exa.SearchParameters
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewSearchDriver(searcher searcher, results resultRepository, sessions sessionRepository, bus publisher,
	policy SearchPolicy, parameters exa.SearchParameters) (*SearchDriver, error) {

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	return &SearchDriver{
		searcher:   searcher,
		results:    results,
		sessions:   sessions,
		bus:        bus,
		policy:     policy,
		parameters: parameters,
		sleep:      sleepContext,
	}, nil
}

// Run searches the selected queries, stores their results and records the session.
// A failed search counts as zero results; a failed write aborts the run.
func (d *SearchDriver) Run(ctx context.Context, queries []string, userQuery string) (SearchOutcome, error) {

	total := len(queries)
	selected := d.policy.SelectedPositions(total)

	log.Infof("starting searches: %d queries, first %d of every %d searched, %d selected",
		total, d.policy.SearchedPerWindow, d.policy.WindowSize, len(selected))

	var outcome SearchOutcome

	for _, window := range lo.Chunk(lo.Range(total), d.policy.WindowSize) {
		for offset, position := range window {

			if err := ctx.Err(); err != nil {
				return outcome, fmt.Errorf("%w: %v", errs.ErrInterrupted, err)
			}

			if offset >= d.policy.SearchedPerWindow {
				log.Debugf("skipping query %d/%d (window position %d)", position+1, total, offset+1)
				continue
			}

			outcome.QueriesSearched++
			log.Infof("query %d/%d (position %d)", outcome.QueriesSearched, len(selected), position+1)

			found, err := d.searchAndSave(ctx, position, queries[position])
			if err != nil {
				return outcome, err
			}
			outcome.TotalResults += found

			if outcome.QueriesSearched < len(selected) && d.policy.Pause > 0 {
				if err = d.sleep(ctx, d.policy.Pause); err != nil {
					return outcome, fmt.Errorf("%w: %v", errs.ErrInterrupted, err)
				}
			}
		}
	}

	session := models.NewSearchSession(userQuery, total, outcome.QueriesSearched)
	if err := d.sessions.Add(ctx, session); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to save search session: %v", err)
		return outcome, fmt.Errorf("failed to save search session: %w", err)
	}
	d.bus.Publish(events.SessionCompletedTopic, events.SessionCompleted{Session: session, TotalResults: outcome.TotalResults})

	log.Infof("search summary: %d queries generated, %d searched, %d results found",
		total, outcome.QueriesSearched, outcome.TotalResults)

	return outcome, nil
}

func (d *SearchDriver) searchAndSave(ctx context.Context, position int, query string) (int, error) {

	start := time.Now()
	found, err := d.searcher.Search(ctx, d.parameters.WithQuery(query, d.policy.ResultsPerQuery))
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("%w: %v", errs.ErrInterrupted, ctx.Err())
		}
		metrics.SearchesCounter.WithLabelValues("failed").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSearchApi).Errorf("error calling search API: %v", err)
		d.bus.Publish(events.QuerySearchedTopic, events.QuerySearched{Position: position, Query: query, Err: err})
		return 0, nil
	}

	metrics.SearchesCounter.WithLabelValues("succeeded").Inc()
	log.Infof("found %d results", len(found))

	if len(found) > 0 {
		results := lo.Map(found, func(r exa.Result, _ int) models.SearchResult {
			return toSearchResult(query, r)
		})
		if err = d.results.Add(ctx, results); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to save search results: %v", err)
			return 0, fmt.Errorf("failed to save search results: %w", err)
		}
		metrics.SavedResultsCounter.Add(float64(len(results)))
	}

	d.bus.Publish(events.QuerySearchedTopic, events.QuerySearched{Position: position, Query: query, Results: len(found)})
	return len(found), nil
}

func toSearchResult(query string, r exa.Result) models.SearchResult {
	fields := r.Fields()
	return models.SearchResult{
		Query:         query,
		Title:         fields.Title,
		URL:           fields.URL,
		Snippet:       fields.Text,
		PublishedDate: fields.PublishedDate,
		Author:        fields.Author,
		Score:         fields.Score,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
