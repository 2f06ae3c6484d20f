// Package telemetry exposes Prometheus counters for the evaluation pipelines.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MOSBatchesServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tts_eval_mos_batches_served_total",
		Help: "Number of MOS evaluation batches handed to raters.",
	})

	ABBatchesServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tts_eval_ab_batches_served_total",
		Help: "Number of A/B evaluation batches handed to raters.",
	})

	MOSRatingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tts_eval_mos_ratings_recorded_total",
		Help: "Number of MOS ratings persisted.",
	})

	ABVerdictsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tts_eval_ab_verdicts_recorded_total",
		Help: "Number of A/B verdicts persisted.",
	})
)
