// Package contribution maps classifier importance over latent features back
// onto the original time x space[ x channel] grid through the factorization's
// per-mode projection matrices.
package contribution

import (
	"gonum.org/v1/gonum/mat"

	"shotlens/domain/core"
)

// MinSamples is the smallest combined cluster size worth training on.
// Below it the importance vector is defined as all-zero instead of risking a
// degenerate fit.
const MinSamples = 5

// BuildClassificationSet assembles the labeled binary sample set from two
// row-index lists over the scaled latent matrix: cluster1 rows first with
// label 1, then cluster2 rows with label 0. Overlapping indices are the
// caller's responsibility and are not validated here.
func BuildClassificationSet(latent *mat.Dense, cluster1, cluster2 []int) (*mat.Dense, []int, error) {
	rows, cols := latent.Dims()
	for _, idx := range append(append([]int{}, cluster1...), cluster2...) {
		if idx < 0 || idx >= rows {
			return nil, nil, core.ErrSelectionRange
		}
	}

	n := len(cluster1) + len(cluster2)
	if n == 0 {
		// Degenerate by definition; callers skip training entirely.
		return nil, nil, nil
	}

	x := mat.NewDense(n, cols, nil)
	y := make([]int, n)
	for i, idx := range cluster1 {
		x.SetRow(i, latent.RawRowView(idx))
		y[i] = 1
	}
	for i, idx := range cluster2 {
		x.SetRow(len(cluster1)+i, latent.RawRowView(idx))
		y[len(cluster1)+i] = 0
	}
	return x, y, nil
}

// degenerate reports whether the sample set is too small or single-class to
// train on.
func degenerate(y []int) bool {
	if len(y) < MinSamples {
		return true
	}
	first := y[0]
	for _, v := range y[1:] {
		if v != first {
			return false
		}
	}
	return true
}
