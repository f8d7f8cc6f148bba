package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	StageDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "leads_llm_stage_duration_seconds",
			Help:       "Duration of each LLM pipeline stage.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"stage"},
	)
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leads_search_duration_seconds",
			Help:    "Duration of each search API call in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30},
		},
	)
	SearchesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_searches_total",
			Help: "Total number of issued searches by outcome.",
		},
		[]string{"outcome"},
	)
	SavedResultsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_results_saved_total",
			Help: "Total number of search results saved to the store.",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(StageDuration)
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(SearchesCounter)
		prometheus.MustRegister(SavedResultsCounter)
	})
}

// StartMetricsServer exposes /metrics on address. An empty address disables the server.
func StartMetricsServer(address string) {

	Register()
	if address == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(address, mux); err != nil {
			log.Errorf("metrics server stopped: %v", err)
		}
	}()
	log.Infof("metrics server listening on %s", address)
}
