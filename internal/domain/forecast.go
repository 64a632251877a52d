package domain

// PredictionSource distinguishes model-backed predictions from the
// deterministic baseline heuristic.
type PredictionSource string

const (
	// SourceModel marks a prediction produced by a trained regressor.
	SourceModel PredictionSource = "model"
	// SourceBaseline marks a prediction produced by the seasonal-growth heuristic.
	SourceBaseline PredictionSource = "baseline"
)

// Prediction is a visitor forecast with a confidence band.
// Field names are contractual for callers.
type Prediction struct {
	Value      int              `json:"value"`
	LowerBound int              `json:"lowerBound"`
	UpperBound int              `json:"upperBound"`
	Source     PredictionSource `json:"source"`
}
