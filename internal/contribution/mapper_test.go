package contribution

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"shotlens/domain/core"
	"shotlens/domain/tensor"
	"shotlens/internal/testkit"
)

const tol = 1e-9

func randomDense(rng *rand.Rand, rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, rng.NormFloat64())
		}
	}
	return m
}

// latentFor builds a latent matrix wide enough for the given per-mode dims,
// with enough rows for two trainable clusters.
func latentFor(dims ...int) *mat.Dense {
	cols := 1
	for _, d := range dims {
		cols *= d
	}
	m := mat.NewDense(8, cols, nil)
	for r := 0; r < 8; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, float64(r*cols+c))
		}
	}
	return m
}

func TestMapContribution_BilinearIdentity(t *testing.T) {
	// 2-mode case with hand-checkable numbers: time basis 2x1, space basis
	// 2x1, importance {3}. C = M_t * I * M_v^T, then elementwise abs.
	mt := mat.NewDense(2, 1, []float64{1, -2})
	mv := mat.NewDense(2, 1, []float64{4, 5})
	projections := tensor.ProjectionMatrices{mt, mv}

	est := &testkit.Estimator{Importances: []float64{3}}
	m, err := MapContribution(context.Background(), est, latentFor(1, 1), projections,
		[]int{0, 1, 2}, []int{3, 4, 5}, Config{})
	if err != nil {
		t.Fatalf("MapContribution failed: %v", err)
	}

	want := []float64{12, 15, 24, 30}
	if len(m.Data) != 4 || m.Dims[0] != 2 || m.Dims[1] != 2 {
		t.Fatalf("map shape = %v with %d values", m.Dims, len(m.Data))
	}
	for i, v := range want {
		if math.Abs(m.Data[i]-v) > tol {
			t.Errorf("data[%d] = %v, want %v", i, m.Data[i], v)
		}
	}
	if est.Calls != 1 {
		t.Errorf("estimator calls = %d, want 1", est.Calls)
	}
}

func TestMapContribution_KronMatchesBilinear(t *testing.T) {
	// The generic contraction and the bilinear shortcut are the same linear
	// map; on random 2-mode inputs their outputs must agree.
	rng := rand.New(rand.NewSource(7))
	mt := randomDense(rng, 4, 2)
	mv := randomDense(rng, 3, 2)

	importance := make([]float64, 4)
	for i := range importance {
		importance[i] = rng.NormFloat64()
	}

	bil := backProjectBilinear(importance, mt, mv)
	kron := backProjectKron(importance, tensor.ProjectionMatrices{mt, mv})

	if len(bil) != len(kron) {
		t.Fatalf("length mismatch: %d vs %d", len(bil), len(kron))
	}
	for i := range bil {
		if math.Abs(bil[i]-kron[i]) > 1e-9 {
			t.Errorf("position %d: bilinear %v, kron %v", i, bil[i], kron[i])
		}
	}
}

func TestMapContribution_ThreeModes(t *testing.T) {
	// 3-mode shape check: (time 2, space 2, channel 3) from latent dims
	// (1, 1, 1) and a unit importance.
	projections := tensor.ProjectionMatrices{
		mat.NewDense(2, 1, []float64{1, 2}),
		mat.NewDense(2, 1, []float64{1, 1}),
		mat.NewDense(3, 1, []float64{1, 0, -1}),
	}
	est := &testkit.Estimator{Importances: []float64{1}}

	m, err := MapContribution(context.Background(), est, latentFor(1, 1, 1), projections,
		[]int{0, 1, 2}, []int{3, 4, 5}, Config{})
	if err != nil {
		t.Fatalf("MapContribution failed: %v", err)
	}
	if len(m.Dims) != 3 || m.Dims[0] != 2 || m.Dims[1] != 2 || m.Dims[2] != 3 {
		t.Fatalf("dims = %v, want [2 2 3]", m.Dims)
	}
	// First time slice: outer product of (1) x (1,1) x (1,0,-1), abs'd.
	want := []float64{1, 0, 1, 1, 0, 1, 2, 0, 2, 2, 0, 2}
	for i, v := range want {
		if math.Abs(m.Data[i]-v) > tol {
			t.Errorf("data[%d] = %v, want %v", i, m.Data[i], v)
		}
	}
}

func TestMapContribution_DegenerateClustersSkipTraining(t *testing.T) {
	projections := tensor.ProjectionMatrices{
		mat.NewDense(2, 1, []float64{1, 2}),
		mat.NewDense(2, 1, []float64{3, 4}),
	}
	est := &testkit.Estimator{Importances: []float64{99}}

	// Four combined samples is below the training floor.
	m, err := MapContribution(context.Background(), est, latentFor(1, 1), projections,
		[]int{0, 1}, []int{2, 3}, Config{})
	if err != nil {
		t.Fatalf("MapContribution failed: %v", err)
	}
	if est.Calls != 0 {
		t.Errorf("estimator trained on a degenerate set")
	}
	for i, v := range m.Data {
		if v != 0 {
			t.Errorf("data[%d] = %v, want 0", i, v)
		}
	}

	// Single-class sets are degenerate regardless of size.
	_, err = MapContribution(context.Background(), est, latentFor(1, 1), projections,
		[]int{0, 1, 2, 3, 4}, nil, Config{})
	if err != nil {
		t.Fatalf("MapContribution failed: %v", err)
	}
	if est.Calls != 0 {
		t.Errorf("estimator trained on a single-class set")
	}
}

func TestMapContribution_ImportanceLengthMismatch(t *testing.T) {
	projections := tensor.ProjectionMatrices{
		mat.NewDense(2, 2, nil),
		mat.NewDense(2, 2, nil),
	}
	est := &testkit.Estimator{Importances: []float64{1, 2, 3}} // want 4

	_, err := MapContribution(context.Background(), est, latentFor(2, 2), projections,
		[]int{0, 1, 2}, []int{3, 4, 5}, Config{})
	if !errors.Is(err, core.ErrLatentDimMismatch) {
		t.Errorf("expected ErrLatentDimMismatch, got %v", err)
	}
}

func TestMapContribution_EstimatorErrorPropagates(t *testing.T) {
	projections := tensor.ProjectionMatrices{
		mat.NewDense(2, 1, nil),
		mat.NewDense(2, 1, nil),
	}
	boom := errors.New("sidecar down")
	est := &testkit.Estimator{Err: boom}

	_, err := MapContribution(context.Background(), est, latentFor(1, 1), projections,
		[]int{0, 1, 2}, []int{3, 4, 5}, Config{})
	if !errors.Is(err, boom) {
		t.Errorf("expected estimator error unchanged, got %v", err)
	}
}

func TestMapContribution_SelectionOutOfRange(t *testing.T) {
	projections := tensor.ProjectionMatrices{
		mat.NewDense(2, 1, nil),
		mat.NewDense(2, 1, nil),
	}
	est := &testkit.Estimator{}

	_, err := MapContribution(context.Background(), est, latentFor(1, 1), projections,
		[]int{0, 99}, []int{1}, Config{})
	if !errors.Is(err, core.ErrSelectionRange) {
		t.Errorf("expected ErrSelectionRange, got %v", err)
	}
}

func TestMapContribution_ZScore(t *testing.T) {
	projections := tensor.ProjectionMatrices{
		mat.NewDense(2, 1, []float64{1, 2}),
		mat.NewDense(2, 1, []float64{1, 3}),
	}
	est := &testkit.Estimator{Importances: []float64{2}}

	m, err := MapContribution(context.Background(), est, latentFor(1, 1), projections,
		[]int{0, 1, 2}, []int{3, 4, 5}, Config{ZScore: true})
	if err != nil {
		t.Fatalf("MapContribution failed: %v", err)
	}

	var sum, sumSq float64
	for _, v := range m.Data {
		sum += v
		sumSq += v * v
	}
	n := float64(len(m.Data))
	if math.Abs(sum/n) > tol {
		t.Errorf("map mean = %v, want 0", sum/n)
	}
	if math.Abs(sumSq/n-1) > tol {
		t.Errorf("map variance = %v, want 1", sumSq/n)
	}
}

func TestMapContribution_RequiresTwoModes(t *testing.T) {
	est := &testkit.Estimator{}
	_, err := MapContribution(context.Background(), est, latentFor(1),
		tensor.ProjectionMatrices{mat.NewDense(2, 1, nil)},
		[]int{0, 1, 2}, []int{3, 4, 5}, Config{})
	if !errors.Is(err, core.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestBuildClassificationSet_LabelsAndOrder(t *testing.T) {
	latent := latentFor(2)
	x, y, err := BuildClassificationSet(latent, []int{3, 1}, []int{0})
	if err != nil {
		t.Fatalf("BuildClassificationSet failed: %v", err)
	}

	rows, cols := x.Dims()
	if rows != 3 || cols != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", rows, cols)
	}
	wantY := []int{1, 1, 0}
	for i, v := range wantY {
		if y[i] != v {
			t.Errorf("y[%d] = %d, want %d", i, y[i], v)
		}
	}
	// Row 0 must be latent row 3.
	if x.At(0, 0) != latent.At(3, 0) {
		t.Errorf("row order wrong: x[0][0] = %v", x.At(0, 0))
	}
}

func TestBuildClassificationSet_EmptySelections(t *testing.T) {
	x, y, err := BuildClassificationSet(latentFor(2), nil, nil)
	if err != nil {
		t.Fatalf("BuildClassificationSet failed: %v", err)
	}
	if x != nil || y != nil {
		t.Errorf("expected nil set for empty selections")
	}
	if !degenerate(y) {
		t.Error("empty set must be degenerate")
	}
}
