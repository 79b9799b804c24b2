package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tecaway_search_sessions",
		Help: "Live technician search sessions",
	})
	SearchSessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tecaway_search_sessions_swept_total",
		Help: "Search sessions dropped for inactivity",
	})
	FilterRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tecaway_search_filters_total",
		Help: "Filter applications by sort type",
	}, []string{"sort"})
	FilteredTechnicians = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tecaway_search_filtered_technicians",
		Help:    "Technicians left after applying filters",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
	GeocodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tecaway_geocode_failures_total",
		Help: "Town lookups that did not resolve to coordinates",
	})
)
