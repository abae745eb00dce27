package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// recordsInserted counts rows written to the record store by table and
	// delivery path ("poll" or "drain").
	recordsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_records_inserted_total",
			Help: "Total number of records appended to the archive.",
		},
		[]string{"table", "path"},
	)

	// tasksDrained counts queue tasks pulled by outcome.
	tasksDrained = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_tasks_drained_total",
			Help: "Total number of webhook tasks drained from the queue.",
		},
		[]string{"result"},
	)

	// syncPasses counts poll-mode passes by outcome.
	syncPasses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_sync_passes_total",
			Help: "Total number of poll-mode reconciliation passes.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(recordsInserted, tasksDrained, syncPasses)
}
