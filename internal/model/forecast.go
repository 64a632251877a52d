// Package model defines the deserialized artifact payloads and their
// inference logic. Instances are immutable after loading and safe for
// concurrent reads.
package model

import (
	"fmt"
	"math"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
)

// ForecastModel is a per-region demand regressor: an ensemble of linear
// sub-estimators fit on bootstrap resamples. Each estimator row holds one
// weight per feature plus a trailing intercept.
type ForecastModel struct {
	SchemaName string          `json:"schema"`
	Estimators [][]float64     `json:"estimators"`
	Manifest   domain.Manifest `json:"-"`
}

// IsEnsemble reports whether the model has sub-estimators for variance
// estimation.
func (m *ForecastModel) IsEnsemble() bool { return len(m.Estimators) > 1 }

// Predict returns the ensemble-mean prediction for the feature vector.
func (m *ForecastModel) Predict(v domain.Vector) (float64, error) {
	preds, err := m.EstimatorPredictions(v)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, p := range preds {
		sum += p
	}
	return sum / float64(len(preds)), nil
}

// EstimatorPredictions returns each sub-estimator's prediction on the same
// input, the spread of which serves as a confidence proxy.
func (m *ForecastModel) EstimatorPredictions(v domain.Vector) ([]float64, error) {
	if v.SchemaName() != m.SchemaName {
		return nil, fmt.Errorf("%w: model trained on %q, input encoded as %q",
			domain.ErrSchemaMismatch, m.SchemaName, v.SchemaName())
	}
	if len(m.Estimators) == 0 {
		return nil, fmt.Errorf("%w: forecast model has no estimators", domain.ErrModelUnavailable)
	}

	features := v.Values()
	preds := make([]float64, len(m.Estimators))
	for i, w := range m.Estimators {
		if len(w) != len(features)+1 {
			return nil, fmt.Errorf("%w: estimator %d has %d weights for %d features",
				domain.ErrSchemaMismatch, i, len(w), len(features))
		}
		p := w[len(features)] // intercept
		for j, f := range features {
			p += w[j] * f
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: estimator %d produced a non-finite prediction",
				domain.ErrModelUnavailable, i)
		}
		preds[i] = p
	}
	return preds, nil
}

// DecodeForecast deserializes a forecast artifact.
func DecodeForecast(data []byte) (*ForecastModel, error) {
	var m ForecastModel
	manifest, err := blob.Decode(data, &m)
	if err != nil {
		return nil, err
	}
	if len(m.Estimators) == 0 {
		return nil, fmt.Errorf("%w: forecast payload has no estimators", domain.ErrArtifactCorrupt)
	}
	m.Manifest = manifest
	return &m, nil
}
