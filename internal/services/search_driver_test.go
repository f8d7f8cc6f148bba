package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/lead-dorker/internal/clients/exa"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"github.com/maxaizer/lead-dorker/internal/domain/events"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, parameters exa.SearchParameters) ([]exa.Result, error) {
	args := m.Called(ctx, parameters)
	results, _ := args.Get(0).([]exa.Result)
	return results, args.Error(1)
}

type memoryResults struct {
	results []models.SearchResult
	err     error
}

func (m *memoryResults) Add(_ context.Context, results []models.SearchResult) error {
	if m.err != nil {
		return m.err
	}
	m.results = append(m.results, results...)
	return nil
}

type memorySessions struct {
	sessions []models.SearchSession
}

func (m *memorySessions) Add(_ context.Context, session models.SearchSession) error {
	m.sessions = append(m.sessions, session)
	return nil
}

var testPolicy = SearchPolicy{WindowSize: 20, SearchedPerWindow: 5, ResultsPerQuery: 10, Pause: time.Second}

func makeQueries(n int) []string {
	return lo.Times(n, func(i int) string { return fmt.Sprintf("query-%d", i) })
}

func hits(n int) []exa.Result {
	return lo.Times(n, func(i int) exa.Result {
		return exa.Result{
			Title: lo.ToPtr(fmt.Sprintf("title %d", i)),
			URL:   lo.ToPtr(fmt.Sprintf("https://www.linkedin.com/in/%d", i)),
			Score: lo.ToPtr(0.5),
		}
	})
}

type driverFixture struct {
	driver   *SearchDriver
	searcher *mockSearcher
	results  *memoryResults
	sessions *memorySessions
	bus      EventBus.Bus
	pauses   []time.Duration
}

func newDriverFixture(t *testing.T, policy SearchPolicy) *driverFixture {
	f := &driverFixture{
		searcher: &mockSearcher{},
		results:  &memoryResults{},
		sessions: &memorySessions{},
		bus:      EventBus.New(),
	}
	driver, err := NewSearchDriver(f.searcher, f.results, f.sessions, f.bus, policy,
		exa.SearchParameters{IncludeDomains: []string{"linkedin.com"}, Livecrawl: exa.LivecrawlFallback})
	require.NoError(t, err)

	driver.sleep = func(_ context.Context, d time.Duration) error {
		f.pauses = append(f.pauses, d)
		return nil
	}
	f.driver = driver
	return f
}

func Test_SearchPolicy_SelectedPositions(t *testing.T) {
	positions := testPolicy.SelectedPositions(47)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 20, 21, 22, 23, 24, 40, 41, 42, 43, 44}, positions)
}

func Test_SearchPolicy_SelectedCountMatchesWindows(t *testing.T) {
	for n := 0; n <= 100; n++ {
		expected := 0
		for start := 0; start < n; start += 20 {
			expected += min(5, n-start)
		}
		assert.Len(t, testPolicy.SelectedPositions(n), expected, "n=%d", n)
	}
}

func Test_SearchPolicy_Validate(t *testing.T) {
	assert.NoError(t, testPolicy.Validate())
	assert.Error(t, SearchPolicy{WindowSize: 0, ResultsPerQuery: 10}.Validate())
	assert.Error(t, SearchPolicy{WindowSize: 5, SearchedPerWindow: 6, ResultsPerQuery: 10}.Validate())
	assert.Error(t, SearchPolicy{WindowSize: 5, SearchedPerWindow: 1}.Validate())
}

func Test_SearchDriver_Run_SearchesFirstFiveOfEveryTwenty(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	queries := makeQueries(47)

	var searched []string
	f.searcher.On("Search", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			params := args.Get(1).(exa.SearchParameters)
			searched = append(searched, params.Query)
		}).
		Return(hits(2), nil)

	outcome, err := f.driver.Run(context.Background(), queries, "CFOs at fintechs in London")
	require.NoError(t, err)

	assert.Equal(t, 15, outcome.QueriesSearched)
	assert.Equal(t, 30, outcome.TotalResults)
	expected := lo.Map(testPolicy.SelectedPositions(47), func(i int, _ int) string { return queries[i] })
	assert.Equal(t, expected, searched)

	require.Len(t, f.sessions.sessions, 1)
	session := f.sessions.sessions[0]
	assert.Equal(t, "CFOs at fintechs in London", session.UserQuery)
	assert.Equal(t, 47, session.TotalQueries)
	assert.Equal(t, 15, session.QueriesSearched)
	assert.LessOrEqual(t, session.QueriesSearched, session.TotalQueries)
}

func Test_SearchDriver_Run_PausesBetweenSearchesGlobally(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	f.searcher.On("Search", mock.Anything, mock.Anything).Return(hits(1), nil)

	outcome, err := f.driver.Run(context.Background(), makeQueries(47), "q")
	require.NoError(t, err)

	assert.Len(t, f.pauses, outcome.QueriesSearched-1)
	for _, pause := range f.pauses {
		assert.Equal(t, time.Second, pause)
	}
}

func Test_SearchDriver_Run_RequestsConfiguredResultCount(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	f.searcher.On("Search", mock.Anything, mock.MatchedBy(func(p exa.SearchParameters) bool {
		return p.NumResults == 10 && p.Livecrawl == exa.LivecrawlFallback && p.IncludeDomains[0] == "linkedin.com"
	})).Return(hits(1), nil)

	_, err := f.driver.Run(context.Background(), makeQueries(3), "q")
	require.NoError(t, err)
	f.searcher.AssertNumberOfCalls(t, "Search", 3)
}

func Test_SearchDriver_Run_PersistsResultsTaggedWithQuery(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	f.searcher.On("Search", mock.Anything, mock.Anything).Return([]exa.Result{
		{Title: lo.ToPtr("Jane Doe - CFO"), URL: lo.ToPtr("https://www.linkedin.com/in/jane"),
			Text: lo.ToPtr("CFO at Acme"), Author: lo.ToPtr("Jane"), Score: lo.ToPtr(0.7),
			PublishedDate: lo.ToPtr("2024-01-01")},
		{URL: lo.ToPtr("https://www.linkedin.com/in/john")},
	}, nil).Once()

	_, err := f.driver.Run(context.Background(), []string{"only-query"}, "q")
	require.NoError(t, err)

	require.Len(t, f.results.results, 2)
	assert.Equal(t, models.SearchResult{
		Query: "only-query", Title: "Jane Doe - CFO", URL: "https://www.linkedin.com/in/jane",
		Snippet: "CFO at Acme", PublishedDate: "2024-01-01", Author: "Jane", Score: 0.7,
	}, f.results.results[0])
	assert.Equal(t, models.SearchResult{Query: "only-query", URL: "https://www.linkedin.com/in/john"},
		f.results.results[1])
	assert.Empty(t, f.pauses)
}

func Test_SearchDriver_Run_FailedSearchDoesNotStopRun(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	queries := makeQueries(3)

	f.searcher.On("Search", mock.Anything, mock.MatchedBy(func(p exa.SearchParameters) bool {
		return p.Query == queries[0]
	})).Return(nil, fmt.Errorf("%w: status 500", errs.ErrTransport))
	f.searcher.On("Search", mock.Anything, mock.Anything).Return(hits(3), nil)

	var failures []events.QuerySearched
	require.NoError(t, f.bus.Subscribe(events.QuerySearchedTopic, func(e events.QuerySearched) {
		if e.Err != nil {
			failures = append(failures, e)
		}
	}))

	outcome, err := f.driver.Run(context.Background(), queries, "q")
	require.NoError(t, err)

	f.searcher.AssertNumberOfCalls(t, "Search", 3)
	assert.Equal(t, 3, outcome.QueriesSearched)
	assert.Equal(t, 6, outcome.TotalResults)
	require.Len(t, failures, 1)
	assert.Equal(t, queries[0], failures[0].Query)
	assert.Equal(t, 3, f.sessions.sessions[0].QueriesSearched)
}

func Test_SearchDriver_Run_EmptyResultsAreNotPersisted(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	f.searcher.On("Search", mock.Anything, mock.Anything).Return([]exa.Result{}, nil)

	outcome, err := f.driver.Run(context.Background(), makeQueries(2), "q")
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.TotalResults)
	assert.Empty(t, f.results.results)
	require.Len(t, f.sessions.sessions, 1)
}

func Test_SearchDriver_Run_NoQueries(t *testing.T) {
	f := newDriverFixture(t, testPolicy)

	outcome, err := f.driver.Run(context.Background(), nil, "q")
	require.NoError(t, err)

	assert.Equal(t, SearchOutcome{}, outcome)
	require.Len(t, f.sessions.sessions, 1)
	assert.Equal(t, 0, f.sessions.sessions[0].TotalQueries)
	f.searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func Test_SearchDriver_Run_StoreFailureAbortsRun(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	f.results.err = errors.New("disk full")
	f.searcher.On("Search", mock.Anything, mock.Anything).Return(hits(1), nil)

	_, err := f.driver.Run(context.Background(), makeQueries(3), "q")

	assert.Error(t, err)
	assert.Empty(t, f.sessions.sessions)
	f.searcher.AssertNumberOfCalls(t, "Search", 1)
}

func Test_SearchDriver_Run_CancelledContextIsInterruption(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.driver.Run(ctx, makeQueries(3), "q")

	assert.ErrorIs(t, err, errs.ErrInterrupted)
	assert.Empty(t, f.sessions.sessions)
}

func Test_SearchDriver_Run_PublishesSessionCompleted(t *testing.T) {
	f := newDriverFixture(t, testPolicy)
	f.searcher.On("Search", mock.Anything, mock.Anything).Return(hits(4), nil)

	var completed []events.SessionCompleted
	require.NoError(t, f.bus.Subscribe(events.SessionCompletedTopic, func(e events.SessionCompleted) {
		completed = append(completed, e)
	}))

	_, err := f.driver.Run(context.Background(), makeQueries(25), "q")
	require.NoError(t, err)

	require.Len(t, completed, 1)
	assert.Equal(t, 25, completed[0].Session.TotalQueries)
	assert.Equal(t, 10, completed[0].Session.QueriesSearched)
	assert.Equal(t, 40, completed[0].TotalResults)
}

func Test_SleepContext_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleepContext(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
