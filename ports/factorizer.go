package ports

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"shotlens/domain/tensor"
)

// ClassWeights is the fixed per-class emphasis record for supervised
// factorization refits.
type ClassWeights struct {
	Target  float64 `json:"target_weight"`
	Between float64 `json:"between_weight"`
	Within  float64 `json:"within_weight"`
}

// DefaultClassWeights returns the weights applied right after an initial fit
// so first-fit and recomputed results share the same code path.
func DefaultClassWeights(classes int) []ClassWeights {
	w := make([]ClassWeights, classes)
	for i := range w {
		w[i] = ClassWeights{Target: 0, Between: 1, Within: 1}
	}
	return w
}

// Factorization is the product of one supervised decomposition: the latent
// feature matrix (games x flattened latent dims) and one projection matrix
// per tensor mode.
type Factorization struct {
	Latent      *mat.Dense
	Projections tensor.ProjectionMatrices
}

// Factorizer is the external supervised tensor-decomposition collaborator.
// Implementations are stateful: RefitWithWeights reuses the source slab of
// the preceding Fit without it being passed again. Failures propagate to the
// caller unchanged; no retry is attempted here.
type Factorizer interface {
	Fit(ctx context.Context, slab *tensor.ModeSlab, labels []int, dims tensor.LatentDims) (*Factorization, error)
	RefitWithWeights(ctx context.Context, weights []ClassWeights) (*Factorization, error)
}

// Embedder is the external nonlinear 2-D layout collaborator, deterministic
// for a fixed seed.
type Embedder interface {
	FitTransform(ctx context.Context, x *mat.Dense) (*mat.Dense, error)
}
