// Package court defines the canonical half-court coordinate frame and the
// spatio-temporal binning grid shared by every tensor row.
package court

import (
	"fmt"
	"math"
	"sort"

	"shotlens/domain/core"
)

// Canonical half-court extents. Units are tenths of feet with the basket near
// the origin, the frame NBA shot charts are published in; every event source
// maps its own coordinate system into this frame before binning.
const (
	CourtMinX = -250.0
	CourtMaxX = 250.0
	CourtMinY = -47.5
	CourtMaxY = 422.5
)

// RegulationPeriods is the number of periods retained for binning. Overtime
// events are filtered out by the event sources.
const RegulationPeriods = 4

// GridSpec holds immutable bin edges for X, Y and the time axis. All rows of
// one tensor share a single GridSpec.
type GridSpec struct {
	XEdges []float64
	YEdges []float64

	PeriodSeconds  int
	TimeBinSeconds int
	TimeBins       int
}

// NewGridSpec builds a grid with linearly spaced edges over the fixed court
// extents and time bins covering the regulation game duration.
func NewGridSpec(xBins, yBins, timeBinSeconds, periodSeconds int) (GridSpec, error) {
	if xBins < 1 || yBins < 1 {
		return GridSpec{}, fmt.Errorf("%w: bins %dx%d", core.ErrInvalidGrid, xBins, yBins)
	}
	if timeBinSeconds < 1 || periodSeconds < 1 {
		return GridSpec{}, fmt.Errorf("%w: time_bin_seconds=%d period_seconds=%d",
			core.ErrInvalidGrid, timeBinSeconds, periodSeconds)
	}

	total := RegulationPeriods * periodSeconds
	return GridSpec{
		XEdges:         linspace(CourtMinX, CourtMaxX, xBins+1),
		YEdges:         linspace(CourtMinY, CourtMaxY, yBins+1),
		PeriodSeconds:  periodSeconds,
		TimeBinSeconds: timeBinSeconds,
		TimeBins:       int(math.Ceil(float64(total) / float64(timeBinSeconds))),
	}, nil
}

func linspace(lo, hi float64, n int) []float64 {
	edges := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[n-1] = hi
	return edges
}

// NumXBins returns the number of spatial bins along X.
func (g GridSpec) NumXBins() int { return len(g.XEdges) - 1 }

// NumYBins returns the number of spatial bins along Y.
func (g GridSpec) NumYBins() int { return len(g.YEdges) - 1 }

// NumCells returns the flattened spatial cell count.
func (g GridSpec) NumCells() int { return g.NumXBins() * g.NumYBins() }

// Elapsed converts a period and time-remaining pair into seconds since
// tip-off.
func (g GridSpec) Elapsed(period, remainingSec int) int {
	return (period-1)*g.PeriodSeconds + (g.PeriodSeconds - remainingSec)
}

// TimeBin returns the time-bin index for an elapsed second count. The result
// may be >= TimeBins (an end-of-game edge case) or negative (a clock reading
// past the period length); callers drop such events.
func (g GridSpec) TimeBin(elapsedSec int) int {
	if elapsedSec < 0 {
		return -1
	}
	return elapsedSec / g.TimeBinSeconds
}

// Cell maps a court coordinate to its flattened cell index. The second return
// is false when the coordinate falls outside the grid. Bin assignment is
// lower-inclusive, upper-exclusive: edges[i] <= v < edges[i+1].
func (g GridSpec) Cell(x, y float64) (int, bool) {
	xb := locate(g.XEdges, x)
	if xb < 0 {
		return 0, false
	}
	yb := locate(g.YEdges, y)
	if yb < 0 {
		return 0, false
	}
	return yb*g.NumXBins() + xb, true
}

// locate finds i such that edges[i] <= v < edges[i+1], or -1 when v is out of
// range. A value exactly on edges[i] belongs to bin i, never bin i-1.
func locate(edges []float64, v float64) int {
	idx := sort.SearchFloat64s(edges, v)
	if idx < len(edges) && edges[idx] == v {
		// exactly on an edge: lower-inclusive
		if idx == len(edges)-1 {
			return -1
		}
		return idx
	}
	bin := idx - 1
	if bin < 0 || bin >= len(edges)-1 {
		return -1
	}
	return bin
}
