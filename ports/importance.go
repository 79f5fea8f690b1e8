package ports

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// ForestParams is the fixed hyperparameter table for the importance
// estimator. The core never varies these per request.
type ForestParams struct {
	Trees           int     `json:"n_estimators"`
	MaxDepth        int     `json:"max_depth"` // 0 = unlimited
	MinSamplesLeaf  int     `json:"min_samples_leaf"`
	MinSamplesSplit int     `json:"min_samples_split"`
	FeatureFraction float64 `json:"max_features"`
	Bootstrap       bool    `json:"bootstrap"`
	Seed            int64   `json:"random_state"`
}

// DefaultForestParams returns the canonical table.
func DefaultForestParams() ForestParams {
	return ForestParams{
		Trees:           300,
		MaxDepth:        0,
		MinSamplesLeaf:  3,
		MinSamplesSplit: 6,
		FeatureFraction: 0.7,
		Bootstrap:       true,
		Seed:            42,
	}
}

// ImportanceEstimator is the external classifier collaborator. Fit trains on
// the labeled sample set and returns one importance score per latent
// feature.
type ImportanceEstimator interface {
	Fit(ctx context.Context, x *mat.Dense, y []int, params ForestParams) ([]float64, error)
}
