package app

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"shotlens/domain/core"
	"shotlens/domain/court"
	"shotlens/domain/tensor"
	"shotlens/internal/aggregate"
	"shotlens/internal/contribution"
)

// AggregateResult is one aggregation answer: per-cell values plus, for ratio
// queries, the attempt counts backing them.
type AggregateResult struct {
	Values   []float64
	Attempts []float64
}

// AggregateCluster answers a count or ratio query over the session's raw
// tensor. Channel selects the raw count channel for plain sums; ratio
// queries use makes (or EFG weight when weighted) over attempts. timeBin is
// aggregate.AllTime or one bin index.
func (s *Service) AggregateCluster(sess *Session, sel tensor.ClusterSelection, channel int, ratio, weighted bool, timeBin int) (*AggregateResult, error) {
	if sess == nil || sess.Raw == nil {
		return nil, core.ErrNotInitialized
	}
	if !ratio {
		values, err := aggregate.Count(sess.Raw, sel, channel, timeBin)
		if err != nil {
			return nil, err
		}
		return &AggregateResult{Values: values}, nil
	}
	values, attempts, err := aggregate.Probability(sess.Raw, sel, weighted, timeBin)
	if err != nil {
		return nil, err
	}
	return &AggregateResult{Values: values, Attempts: attempts}, nil
}

// AnalyzeClusters produces the original-space discriminability map for two
// caller-chosen clusters.
func (s *Service) AnalyzeClusters(ctx context.Context, sess *Session, cluster1, cluster2 []int, zscore bool) (*contribution.Map, error) {
	if !sess.Ready() {
		return nil, core.ErrNotInitialized
	}
	return contribution.MapContribution(ctx, s.estimator, sess.Latent, sess.Projections,
		cluster1, cluster2, contribution.Config{ZScore: zscore})
}

// ClusterShots lists the retained raw events behind a cluster, optionally
// restricted to a single time bin.
func (s *Service) ClusterShots(sess *Session, sel tensor.ClusterSelection, timeBin int) ([]court.ShotEvent, error) {
	if sess == nil || sess.Raw == nil {
		return nil, core.ErrNotInitialized
	}
	rows, err := sel.Resolve(sess.Rows())
	if err != nil {
		return nil, err
	}
	if timeBin != aggregate.AllTime && (timeBin < 0 || timeBin >= sess.Grid.TimeBins) {
		return nil, core.ErrSelectionRange
	}

	selected := make(map[int64]bool, len(rows))
	for _, r := range rows {
		selected[sess.Index[r].GameID] = true
	}

	shots := make([]court.ShotEvent, 0)
	for _, ev := range sess.Events {
		if !selected[ev.GameID] {
			continue
		}
		if timeBin != aggregate.AllTime {
			elapsed := sess.Grid.Elapsed(ev.Period, ev.RemainingSec)
			if sess.Grid.TimeBin(elapsed) != timeBin {
				continue
			}
		}
		shots = append(shots, ev)
	}
	return shots, nil
}

// denseRows converts a gonum matrix to a row slice for JSON transport.
func denseRows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		copy(out[r], m.RawRowView(r))
	}
	return out
}
