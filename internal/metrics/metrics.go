package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PhotosUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapfolio_photos_uploaded_total",
			Help: "Photos accepted into storage",
		},
	)

	UploadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapfolio_upload_failures_total",
			Help: "Per-file upload failures by cause",
		},
		[]string{"cause"},
	)

	PhotosProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapfolio_photos_processed_total",
			Help: "Recognition attempts by outcome",
		},
		[]string{"status"},
	)

	EventsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapfolio_events_completed_total",
			Help: "Events advanced to completed by the lifecycle controller",
		},
	)

	RetentionDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapfolio_retention_deleted_total",
			Help: "Photos purged by the retention sweep",
		},
	)

	RetentionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapfolio_retention_errors_total",
			Help: "Per-photo failures during retention sweeps",
		},
	)

	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapfolio_processing_duration_seconds",
			Help:    "Wall time of one recognition call",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)
)
