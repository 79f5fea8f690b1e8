package tensor

import "gonum.org/v1/gonum/mat"

// LatentDims holds the per-mode latent dimensionality requested from the
// factorizer, ordered (time, space[, channel]).
type LatentDims []int

// Product returns the flattened latent feature count.
func (d LatentDims) Product() int {
	p := 1
	for _, v := range d {
		p *= v
	}
	return p
}

// ProjectionMatrices holds one linear basis matrix per tensor mode, each
// shaped (original dimension x latent dimension). They are produced by the
// factorizer, immutable once produced, and consumed by the contribution
// mapper.
type ProjectionMatrices []*mat.Dense

// LatentDims reads the latent size off each mode matrix.
func (p ProjectionMatrices) LatentDims() LatentDims {
	dims := make(LatentDims, len(p))
	for i, m := range p {
		_, c := m.Dims()
		dims[i] = c
	}
	return dims
}

// OriginalDims reads the original-axis size off each mode matrix.
func (p ProjectionMatrices) OriginalDims() []int {
	dims := make([]int, len(p))
	for i, m := range p {
		r, _ := m.Dims()
		dims[i] = r
	}
	return dims
}
