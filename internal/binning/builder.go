// Package binning converts ordered shot events into the raw 4-D shot tensor.
package binning

import (
	"fmt"
	"log"
	"sort"

	"shotlens/domain/court"
	"shotlens/domain/tensor"
)

// Result carries the built tensor together with its row index and the events
// that survived binning. Dropped counts events discarded for falling off the
// grid or past the last time bin; those are not errors.
type Result struct {
	Tensor   *tensor.ShotTensor
	Index    tensor.GameIndex
	Events   []court.ShotEvent
	Retained int
	Dropped  int
}

// Build bins the events of a single entity/cohort into one tensor row per
// distinct game id, rows sorted by ascending game id. Zero events yield a
// valid zero-row tensor.
func Build(grid court.GridSpec, events []court.ShotEvent) (*Result, error) {
	refs := make([]tensor.GameRef, 0)
	seen := make(map[int64]bool)
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("binning batch rejected: %w", err)
		}
		if !seen[ev.GameID] {
			seen[ev.GameID] = true
			refs = append(refs, tensor.GameRef{GameID: ev.GameID})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].GameID < refs[j].GameID })
	return accumulate(grid, events, refs)
}

// accumulate fills a tensor for a pre-sorted row index. Events are assumed
// validated.
func accumulate(grid court.GridSpec, events []court.ShotEvent, refs tensor.GameIndex) (*Result, error) {
	rowOf := make(map[int64]int, len(refs))
	for i, r := range refs {
		rowOf[r.GameID] = i
	}

	t := tensor.NewShotTensor(len(refs), grid.TimeBins, grid.NumCells())
	res := &Result{Tensor: t, Index: refs}

	for _, ev := range events {
		g, ok := rowOf[ev.GameID]
		if !ok {
			return nil, fmt.Errorf("binning: game %d missing from row index", ev.GameID)
		}
		tb := grid.TimeBin(grid.Elapsed(ev.Period, ev.RemainingSec))
		if tb < 0 || tb >= grid.TimeBins {
			res.Dropped++
			continue
		}
		cell, ok := grid.Cell(ev.X, ev.Y)
		if !ok {
			res.Dropped++
			continue
		}

		t.Add(g, tb, cell, tensor.ChannelAttempts, 1)
		if ev.Made {
			t.Add(g, tb, cell, tensor.ChannelMakes, 1)
			t.Add(g, tb, cell, tensor.ChannelPoints, float64(ev.PointValue))
			t.Add(g, tb, cell, tensor.ChannelEFGWeight, ev.EFGWeight())
		}
		res.Events = append(res.Events, ev)
		res.Retained++
	}

	finalize(t)

	if res.Dropped > 0 {
		log.Printf("[TensorBuilder] dropped %d/%d events outside grid or time range",
			res.Dropped, res.Dropped+res.Retained)
	}
	return res, nil
}

// finalize derives the misses and frequency channels after the event pass.
// Misses are never accumulated directly, and frequency starts as a raw copy
// of attempts; only the normalizer rescales it.
func finalize(t *tensor.ShotTensor) {
	for g := 0; g < t.GamesN; g++ {
		for tb := 0; tb < t.TimeBins; tb++ {
			for c := 0; c < t.Cells; c++ {
				attempts := t.At(g, tb, c, tensor.ChannelAttempts)
				makes := t.At(g, tb, c, tensor.ChannelMakes)
				t.Set(g, tb, c, tensor.ChannelMisses, attempts-makes)
				t.Set(g, tb, c, tensor.ChannelFrequency, attempts)
			}
		}
	}
}
