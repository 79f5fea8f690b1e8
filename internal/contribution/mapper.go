package contribution

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"shotlens/domain/core"
	"shotlens/domain/tensor"
	"shotlens/ports"
)

// Config controls optional post-processing of the contribution map.
type Config struct {
	// ZScore rescales the whole map to zero mean / unit variance for
	// cross-run comparability. Off by default.
	ZScore bool
}

// Map is a discriminability-magnitude map in original coordinates. Dims is
// (time, space) for 2-mode factorizations or (time, space, channel) for
// 3-mode; Data is row-major over Dims.
type Map struct {
	Dims []int     `json:"dims"`
	Data []float64 `json:"data"`
}

// MapContribution scores how strongly each original (time, cell[, channel])
// position separates the two clusters. The classifier's per-latent-feature
// importance is reshaped to the per-mode latent dims and back-projected
// through the projection matrices; this is an exact linear identity, not a
// heuristic, since the reconstruction operator factors as the outer product
// of the per-mode maps.
func MapContribution(
	ctx context.Context,
	estimator ports.ImportanceEstimator,
	latent *mat.Dense,
	projections tensor.ProjectionMatrices,
	cluster1, cluster2 []int,
	cfg Config,
) (*Map, error) {
	if len(projections) < 2 {
		return nil, fmt.Errorf("%w: %d projection matrices", core.ErrShapeMismatch, len(projections))
	}

	x, y, err := BuildClassificationSet(latent, cluster1, cluster2)
	if err != nil {
		return nil, err
	}

	latentDims := projections.LatentDims()
	importance := make([]float64, latentDims.Product())
	if !degenerate(y) {
		importance, err = estimator.Fit(ctx, x, y, ports.DefaultForestParams())
		if err != nil {
			// External collaborator failures propagate unchanged.
			return nil, err
		}
	}
	if len(importance) != latentDims.Product() {
		return nil, fmt.Errorf("%w: got %d, latent dims %v", core.ErrLatentDimMismatch,
			len(importance), latentDims)
	}

	var data []float64
	if len(projections) == 2 {
		// The bilinear form is the cheap equivalent of the Kronecker
		// contraction and is always used when only two modes are active.
		data = backProjectBilinear(importance, projections[0], projections[1])
	} else {
		data = backProjectKron(importance, projections)
	}

	for i, v := range data {
		data[i] = math.Abs(v)
	}
	if cfg.ZScore {
		zscore(data)
	}

	return &Map{Dims: projections.OriginalDims(), Data: data}, nil
}

// backProjectBilinear computes M_time * I * M_space^T with the importance
// vector reshaped to (s, v).
func backProjectBilinear(importance []float64, mt, mv *mat.Dense) []float64 {
	_, s := mt.Dims()
	_, v := mv.Dims()
	imp := mat.NewDense(s, v, importance)

	var tmp, contrib mat.Dense
	tmp.Mul(mt, imp)
	contrib.Mul(&tmp, mv.T())

	rows, cols := contrib.Dims()
	out := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		out = append(out, contrib.RawRowView(r)...)
	}
	return out
}

// backProjectKron applies vec(C) = kron(M_1, ..., M_n) * importance without
// materializing the Kronecker matrix: each output position contracts the
// importance tensor against one row of every mode matrix.
func backProjectKron(importance []float64, mats tensor.ProjectionMatrices) []float64 {
	orig := mats.OriginalDims()
	lat := mats.LatentDims()

	out := make([]float64, product(orig))
	oIdx := make([]int, len(orig))
	lIdx := make([]int, len(lat))

	for o := range out {
		unravel(o, orig, oIdx)
		sum := 0.0
		for l := 0; l < len(importance); l++ {
			unravel(l, lat, lIdx)
			term := importance[l]
			for m := range mats {
				term *= mats[m].At(oIdx[m], lIdx[m])
			}
			sum += term
		}
		out[o] = sum
	}
	return out
}

// zscore standardizes the map in place; a zero-spread map collapses to
// all-zero rather than dividing by zero.
func zscore(data []float64) {
	mean, err := stats.Mean(data)
	if err != nil {
		return
	}
	std, err := stats.StandardDeviationPopulation(data)
	if err != nil || std == 0 {
		for i := range data {
			data[i] = 0
		}
		return
	}
	for i := range data {
		data[i] = (data[i] - mean) / std
	}
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}

// unravel writes the multi-index of flat position i under row-major dims.
func unravel(i int, dims []int, idx []int) {
	for m := len(dims) - 1; m >= 0; m-- {
		idx[m] = i % dims[m]
		i /= dims[m]
	}
}
