package metrics

import "github.com/prometheus/client_golang/prometheus"

// Model serving Prometheus metrics.
var (
	ModelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wendaml",
			Name:      "model_loads_total",
			Help:      "Artifact load attempts by outcome",
		},
		[]string{"key", "outcome"}, // "hit" / "loaded" / "missing" / "corrupt"
	)

	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wendaml",
			Name:      "predictions_total",
			Help:      "Forecast predictions served by source",
		},
		[]string{"source"}, // "model" / "baseline"
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wendaml",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by strategy",
		},
		[]string{"mode"}, // "similar" / "preference" / "hybrid" / "fallback"
	)
)

var modelMetricsRegistered bool

// RegisterModelMetrics registers model serving metrics. Must be called once from main.
func RegisterModelMetrics() {
	if modelMetricsRegistered {
		return
	}
	prometheus.MustRegister(ModelLoadsTotal)
	prometheus.MustRegister(PredictionsTotal)
	prometheus.MustRegister(RecommendationsTotal)
	modelMetricsRegistered = true
}

// PredictionRecorder adapts PredictionsTotal to the forecast service.
type PredictionRecorder struct{}

// ObservePrediction counts one served prediction.
func (PredictionRecorder) ObservePrediction(source string) {
	PredictionsTotal.WithLabelValues(source).Inc()
}
