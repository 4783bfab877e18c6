package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncFieldFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "okr_sync_field_failures_total",
			Help: "Issue fields the sync could not map or resolve",
		},
		[]string{"field", "kind"},
	)

	syncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "okr_sync_records_total",
			Help: "Tracker records processed by the sync, by outcome",
		},
		[]string{"outcome"},
	)

	syncFailedBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "okr_sync_failed_batches_total",
			Help: "Sync batches whose tracker search failed",
		},
	)
)
