// Package testkit provides in-memory collaborator fakes and event fixtures
// shared by service and handler tests.
package testkit

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/mat"

	"shotlens/domain/court"
	"shotlens/domain/tensor"
	"shotlens/ports"
)

// EventSource serves fixed cohorts.
type EventSource struct {
	PeriodLen int
	Seasons   []ports.SeasonShots
	ByPlayer  map[int64]ports.PlayerShots
	PlayerSet []ports.EntityInfo

	Err error
}

func (s *EventSource) PeriodSeconds() int {
	if s.PeriodLen == 0 {
		return 600
	}
	return s.PeriodLen
}

func (s *EventSource) SeasonShots(ctx context.Context) ([]ports.SeasonShots, error) {
	return s.Seasons, s.Err
}

func (s *EventSource) PlayerShots(ctx context.Context, ids []int64) ([]ports.PlayerShots, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]ports.PlayerShots, len(ids))
	for i, id := range ids {
		ps, ok := s.ByPlayer[id]
		if !ok {
			ps = ports.PlayerShots{PlayerID: id}
		}
		out[i] = ps
	}
	return out, nil
}

func (s *EventSource) Players(ctx context.Context) ([]ports.EntityInfo, error) {
	return s.PlayerSet, s.Err
}

// Factorizer returns identity-shaped products and records its inputs.
type Factorizer struct {
	mu sync.Mutex

	FitCalls   int
	RefitCalls int
	LastSlab   *tensor.ModeSlab
	LastDims   tensor.LatentDims
	LastWts    []ports.ClassWeights

	Err error
}

// result builds a deterministic factorization for the recorded slab: a
// games x prod(dims) latent matrix of row-index values, and per-mode
// projection matrices of ones.
func (f *Factorizer) result() *ports.Factorization {
	dims := f.LastDims
	latentCols := dims.Product()
	latent := mat.NewDense(f.LastSlab.GamesN, latentCols, nil)
	for r := 0; r < f.LastSlab.GamesN; r++ {
		for c := 0; c < latentCols; c++ {
			latent.Set(r, c, float64(r+1))
		}
	}
	// Mode order (time, space); the games axis is the sample axis, never a
	// projected mode. A request with any other arity is ill-formed and
	// panics here rather than being quietly absorbed.
	original := []int{f.LastSlab.TimeBins, f.LastSlab.Cells}
	projections := make(tensor.ProjectionMatrices, len(dims))
	for i, d := range dims {
		m := mat.NewDense(original[i], d, nil)
		for r := 0; r < original[i]; r++ {
			for c := 0; c < d; c++ {
				m.Set(r, c, 1)
			}
		}
		projections[i] = m
	}
	return &ports.Factorization{Latent: latent, Projections: projections}
}

func (f *Factorizer) Fit(ctx context.Context, slab *tensor.ModeSlab, labels []int, dims tensor.LatentDims) (*ports.Factorization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.FitCalls++
	f.LastSlab = slab
	f.LastDims = dims
	return f.result(), nil
}

func (f *Factorizer) RefitWithWeights(ctx context.Context, weights []ports.ClassWeights) (*ports.Factorization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.RefitCalls++
	f.LastWts = weights
	return f.result(), nil
}

// Embedder maps every row to (rowIndex, -rowIndex).
type Embedder struct {
	Calls int
	Err   error
}

func (e *Embedder) FitTransform(ctx context.Context, x *mat.Dense) (*mat.Dense, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	e.Calls++
	rows, _ := x.Dims()
	out := mat.NewDense(rows, 2, nil)
	for r := 0; r < rows; r++ {
		out.Set(r, 0, float64(r))
		out.Set(r, 1, -float64(r))
	}
	return out, nil
}

// Estimator returns a fixed importance vector, or uniform scores when none
// is set.
type Estimator struct {
	Importances []float64
	Calls       int
	LastParams  ports.ForestParams
	Err         error
}

func (e *Estimator) Fit(ctx context.Context, x *mat.Dense, y []int, params ports.ForestParams) ([]float64, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	e.Calls++
	e.LastParams = params
	if e.Importances != nil {
		return e.Importances, nil
	}
	_, cols := x.Dims()
	out := make([]float64, cols)
	for i := range out {
		out[i] = 1.0 / float64(cols)
	}
	return out, nil
}

// SnapshotStore keeps snapshots in memory.
type SnapshotStore struct {
	mu    sync.Mutex
	Saved []*ports.Snapshot
	Err   error
}

func (s *SnapshotStore) Save(ctx context.Context, snap *ports.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Saved = append(s.Saved, snap)
	return nil
}

func (s *SnapshotStore) Latest(ctx context.Context) (*ports.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Saved) == 0 {
		return nil, nil
	}
	return s.Saved[len(s.Saved)-1], nil
}

func (s *SnapshotStore) Close() error { return nil }

// Shot builds a made or missed two-point attempt at a court position.
func Shot(gameID int64, period, remaining int, x, y float64, made bool) court.ShotEvent {
	return court.ShotEvent{
		GameID:       gameID,
		EntityID:     1,
		Period:       period,
		RemainingSec: remaining,
		X:            x,
		Y:            y,
		Made:         made,
		PointValue:   2,
		ShotType:     "2PT Field Goal",
	}
}

// ThreeShot builds a three-point attempt.
func ThreeShot(gameID int64, period, remaining int, x, y float64, made bool) court.ShotEvent {
	ev := Shot(gameID, period, remaining, x, y, made)
	ev.PointValue = 3
	ev.ShotType = "3PT Field Goal"
	return ev
}
