package compute

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"shotlens/domain/core"
	"shotlens/ports"
)

// Estimator trains the forest classifier through the sidecar and returns the
// per-feature importance vector.
type Estimator struct {
	client *Client
}

// NewEstimator creates a sidecar-backed importance estimator.
func NewEstimator(client *Client) *Estimator {
	return &Estimator{client: client}
}

type importanceRequest struct {
	Data   [][]float64        `json:"data"`
	Labels []int              `json:"labels"`
	Params ports.ForestParams `json:"params"`
}

type importanceResponse struct {
	Importances []float64 `json:"importances"`
}

// Fit trains a classifier on the labeled rows and returns one importance per
// column of x.
func (e *Estimator) Fit(ctx context.Context, x *mat.Dense, y []int, params ports.ForestParams) ([]float64, error) {
	var resp importanceResponse
	req := importanceRequest{Data: fromDense(x), Labels: y, Params: params}
	if err := e.client.postJSON(ctx, "importance", "/importance", req, &resp); err != nil {
		return nil, err
	}
	_, cols := x.Dims()
	if len(resp.Importances) != cols {
		return nil, fmt.Errorf("%w: %d importances for %d features",
			core.ErrShapeMismatch, len(resp.Importances), cols)
	}
	return resp.Importances, nil
}
