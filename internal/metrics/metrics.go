package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FacilitiesProcessed *prometheus.CounterVec
	APIErrors           prometheus.Counter
	RequestSeconds      *prometheus.HistogramVec
	SpatialAmbiguities  prometheus.Counter
	ReviewCommits       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FacilitiesProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "reconcile_facilities_processed_total",
			Help: "Total number of facilities processed by a reconciliation run.",
		}, []string{"resolver", "outcome"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		SpatialAmbiguities: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "spatial_join_ambiguous_points_total",
			Help: "Points contained by more than one municipality polygon.",
		}),
		ReviewCommits: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "review_commits_total",
			Help: "Corrections submitted through the review API, by result.",
		}, []string{"result"}),
	}
}
