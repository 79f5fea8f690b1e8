package compute

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"shotlens/domain/core"
)

// Embedder projects latent feature rows onto a 2-D layout through the
// sidecar. The seed is fixed per client so repeated calls over the same
// matrix give the same picture.
type Embedder struct {
	client *Client
	seed   int64
}

// NewEmbedder creates a sidecar-backed embedder. A zero seed falls back to
// the canonical 42.
func NewEmbedder(client *Client, seed int64) *Embedder {
	if seed == 0 {
		seed = 42
	}
	return &Embedder{client: client, seed: seed}
}

type embedRequest struct {
	Data [][]float64 `json:"data"`
	Seed int64       `json:"random_state"`
}

type embedResponse struct {
	Embedding [][]float64 `json:"embedding"`
}

// FitTransform embeds the rows of x into two dimensions.
func (e *Embedder) FitTransform(ctx context.Context, x *mat.Dense) (*mat.Dense, error) {
	var resp embedResponse
	req := embedRequest{Data: fromDense(x), Seed: e.seed}
	if err := e.client.postJSON(ctx, "embed", "/embed", req, &resp); err != nil {
		return nil, err
	}
	rows, _ := x.Dims()
	if len(resp.Embedding) != rows {
		return nil, fmt.Errorf("%w: embedding has %d rows for %d samples",
			core.ErrShapeMismatch, len(resp.Embedding), rows)
	}
	return toDense(resp.Embedding), nil
}
