package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_swipes_total",
			Help: "Total number of swipes recorded",
		},
		[]string{"action"},
	)

	matchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_matches_total",
			Help: "Total number of matches created",
		},
		[]string{"super"},
	)

	matchQuality = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_match_quality",
			Help:    "Distribution of match quality scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	candidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_candidates_returned",
			Help:    "Candidates returned per discovery request",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)
)

func RecordSwipe(action string) {
	swipesTotal.WithLabelValues(action).Inc()
}

func RecordMatch(superMatch bool) {
	if superMatch {
		matchesTotal.WithLabelValues("true").Inc()
	} else {
		matchesTotal.WithLabelValues("false").Inc()
	}
}

func RecordMatchQuality(quality int) {
	matchQuality.Observe(float64(quality))
}

func RecordCandidatesReturned(count int) {
	candidatesReturned.Observe(float64(count))
}
