// Package monitoring holds the prometheus collectors for the engagement core.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EngagementToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_toggles_total",
			Help: "Total number of follow/like toggle operations",
		},
		[]string{"kind", "action"},
	)

	ToggleConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_toggle_conflicts_total",
			Help: "Total number of optimistic-concurrency conflicts during toggles",
		},
		[]string{"kind"},
	)

	ViewRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_view_records_total",
			Help: "Total number of post view record attempts",
		},
		[]string{"outcome"},
	)

	FeedQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_query_duration_seconds",
			Help:    "Duration of feed listing queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	NotifyPublishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_publishes_total",
			Help: "Total number of engagement events published to subscribers",
		},
		[]string{"outcome"},
	)
)

// Register installs every collector on the given registerer.
// Called once from cmd/server.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		EngagementToggles,
		ToggleConflicts,
		ViewRecords,
		FeedQueryDuration,
		NotifyPublishes,
	)
}
