package compute

import (
	"context"
	"fmt"
	"sync"

	"shotlens/domain/core"
	"shotlens/domain/tensor"
	"shotlens/ports"
)

// Factorizer runs the supervised tensor decomposition through the sidecar.
// The sidecar keeps the fitted slab under a fit id so the weighted refit can
// reuse it without retransmitting the data.
type Factorizer struct {
	client *Client

	mu    sync.Mutex
	fitID string
}

// NewFactorizer creates a sidecar-backed factorizer.
func NewFactorizer(client *Client) *Factorizer {
	return &Factorizer{client: client}
}

type fitRequest struct {
	Shape      []int                `json:"shape"`
	Data       []float64            `json:"data"`
	Labels     []int                `json:"labels"`
	LatentDims []int                `json:"latent_dims"`
	Weights    []ports.ClassWeights `json:"class_weights,omitempty"`
}

type refitRequest struct {
	FitID   string               `json:"fit_id"`
	Weights []ports.ClassWeights `json:"class_weights"`
}

type factorizationResponse struct {
	FitID       string        `json:"fit_id"`
	Latent      [][]float64   `json:"latent"`
	Projections [][][]float64 `json:"projections"`
}

// Fit decomposes the slab and retains the sidecar's fit id for later refits.
func (f *Factorizer) Fit(ctx context.Context, slab *tensor.ModeSlab, labels []int, dims tensor.LatentDims) (*ports.Factorization, error) {
	req := fitRequest{
		Shape:      []int{slab.GamesN, slab.TimeBins, slab.Cells},
		Data:       slab.Data,
		Labels:     labels,
		LatentDims: dims,
	}
	var resp factorizationResponse
	if err := f.client.postJSON(ctx, "factorize_fit", "/factorize/fit", req, &resp); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.fitID = resp.FitID
	f.mu.Unlock()

	return resp.toFactorization()
}

// RefitWithWeights reruns the decomposition over the previously fitted slab
// with new per-class weights.
func (f *Factorizer) RefitWithWeights(ctx context.Context, weights []ports.ClassWeights) (*ports.Factorization, error) {
	f.mu.Lock()
	fitID := f.fitID
	f.mu.Unlock()
	if fitID == "" {
		return nil, fmt.Errorf("%w: refit before fit", core.ErrPrecondition)
	}

	var resp factorizationResponse
	req := refitRequest{FitID: fitID, Weights: weights}
	if err := f.client.postJSON(ctx, "factorize_refit", "/factorize/refit", req, &resp); err != nil {
		return nil, err
	}
	return resp.toFactorization()
}

func (r *factorizationResponse) toFactorization() (*ports.Factorization, error) {
	latent := toDense(r.Latent)
	if latent == nil {
		return nil, fmt.Errorf("%w: sidecar returned empty latent matrix", core.ErrShapeMismatch)
	}
	projections := make(tensor.ProjectionMatrices, len(r.Projections))
	for i, p := range r.Projections {
		m := toDense(p)
		if m == nil {
			return nil, fmt.Errorf("%w: sidecar returned empty projection %d", core.ErrShapeMismatch, i)
		}
		projections[i] = m
	}
	return &ports.Factorization{Latent: latent, Projections: projections}, nil
}
