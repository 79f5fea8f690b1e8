// Package aggregate answers read-only count and ratio queries over a raw
// (pre-normalization) shot tensor for a chosen game subset.
package aggregate

import (
	"fmt"

	"shotlens/domain/core"
	"shotlens/domain/tensor"
)

// AllTime selects aggregation over every time bin instead of a single one.
const AllTime = -1

// Count sums the given raw channel over the selected rows and returns one
// value per spatial cell. With timeBin == AllTime the sum also runs over the
// time axis; otherwise only that bin's slab is returned. An empty selection
// means all rows.
func Count(t *tensor.ShotTensor, sel tensor.ClusterSelection, channel, timeBin int) ([]float64, error) {
	if channel < 0 || channel >= tensor.NumChannels {
		return nil, fmt.Errorf("%w: channel %d", core.ErrPrecondition, channel)
	}
	rows, err := sel.Resolve(t.GamesN)
	if err != nil {
		return nil, err
	}
	bins, err := timeRange(t, timeBin)
	if err != nil {
		return nil, err
	}

	out := make([]float64, t.Cells)
	for _, g := range rows {
		for _, tb := range bins {
			for c := 0; c < t.Cells; c++ {
				out[c] += t.At(g, tb, c, channel)
			}
		}
	}
	return out, nil
}

// Probability returns the per-cell shooting ratio for the selection along
// with the attempt counts backing each cell (callers weight display
// reliability by attempts). The numerator is the makes channel, or the
// EFG-weight channel when weighted is set. Cells with zero attempts get an
// explicit zero ratio.
//
// For AllTime the numerator and denominator are each summed over time
// separately and divided once; averaging per-bin ratios would be wrong.
func Probability(t *tensor.ShotTensor, sel tensor.ClusterSelection, weighted bool, timeBin int) (ratio, attempts []float64, err error) {
	numChannel := tensor.ChannelMakes
	if weighted {
		numChannel = tensor.ChannelEFGWeight
	}

	num, err := Count(t, sel, numChannel, timeBin)
	if err != nil {
		return nil, nil, err
	}
	attempts, err = Count(t, sel, tensor.ChannelAttempts, timeBin)
	if err != nil {
		return nil, nil, err
	}

	ratio = make([]float64, len(num))
	for c := range num {
		if attempts[c] > 0 {
			ratio[c] = num[c] / attempts[c]
		}
	}
	return ratio, attempts, nil
}

func timeRange(t *tensor.ShotTensor, timeBin int) ([]int, error) {
	if timeBin == AllTime {
		bins := make([]int, t.TimeBins)
		for i := range bins {
			bins[i] = i
		}
		return bins, nil
	}
	if timeBin < 0 || timeBin >= t.TimeBins {
		return nil, fmt.Errorf("%w: time bin %d of %d", core.ErrPrecondition, timeBin, t.TimeBins)
	}
	return []int{timeBin}, nil
}
