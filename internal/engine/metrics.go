package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	inferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vlmd",
			Subsystem: "engine",
			Name:      "inference_duration_seconds",
			Help:      "Wall-clock generation time per request",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"modality", "outcome"},
	)

	inferenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vlmd",
			Subsystem: "engine",
			Name:      "inference_total",
			Help:      "Total inference requests by modality and outcome",
		},
		[]string{"modality", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(inferenceDuration, inferenceTotal)
}

func observeInference(modality, outcome string, seconds float64) {
	inferenceTotal.WithLabelValues(modality, outcome).Inc()
	inferenceDuration.WithLabelValues(modality, outcome).Observe(seconds)
}
