// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EngineOperationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_operations_completed_total",
			Help: "Total number of engine operations completed",
		},
		[]string{"operation"},
	)

	EngineOperationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_operations_failed_total",
			Help: "Total number of engine operations failed",
		},
		[]string{"operation", "error_code"},
	)

	EngineOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_operation_duration_seconds",
			Help: "Duration of engine operation processing in seconds",
		},
		[]string{"operation"},
	)

	EngineOperationsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "engine_operations_active",
			Help: "Number of in-flight requests per operation",
		},
		[]string{"operation"},
	)

	PathwayLookupsUnreachable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathway_lookups_unreachable_total",
			Help: "Pathway computations where no goal visa was reachable",
		},
		[]string{"journey_stage"},
	)
)
