// Package tensor holds the dense shot tensor and its companion index types.
// The tensor is the single data structure every analysis stage operates on:
// the builder fills it, the normalizer rescales it, the aggregator and the
// factorization pipeline read it.
package tensor

// Tensor channels, in storage order.
const (
	ChannelAttempts = iota
	ChannelMakes
	ChannelPoints
	ChannelEFGWeight
	ChannelMisses
	ChannelFrequency

	NumChannels = 6
)

// ChannelNames maps channel indices to their wire names.
var ChannelNames = [NumChannels]string{
	"attempts", "makes", "points", "efg_weight", "misses", "frequency",
}

// ShotTensor is a dense 4-D array shaped [game][time_bin][cell][channel].
type ShotTensor struct {
	GamesN   int
	TimeBins int
	Cells    int

	data []float64
}

// NewShotTensor allocates a zero tensor of the given shape.
func NewShotTensor(games, timeBins, cells int) *ShotTensor {
	return &ShotTensor{
		GamesN:   games,
		TimeBins: timeBins,
		Cells:    cells,
		data:     make([]float64, games*timeBins*cells*NumChannels),
	}
}

func (t *ShotTensor) offset(g, tb, c, ch int) int {
	return ((g*t.TimeBins+tb)*t.Cells+c)*NumChannels + ch
}

// At returns the value at [g][tb][c][ch].
func (t *ShotTensor) At(g, tb, c, ch int) float64 {
	return t.data[t.offset(g, tb, c, ch)]
}

// Set overwrites the value at [g][tb][c][ch].
func (t *ShotTensor) Set(g, tb, c, ch int, v float64) {
	t.data[t.offset(g, tb, c, ch)] = v
}

// Add accumulates into the value at [g][tb][c][ch].
func (t *ShotTensor) Add(g, tb, c, ch int, v float64) {
	t.data[t.offset(g, tb, c, ch)] += v
}

// Shape returns [games, time_bins, cells, channels].
func (t *ShotTensor) Shape() [4]int {
	return [4]int{t.GamesN, t.TimeBins, t.Cells, NumChannels}
}

// Clone returns a deep copy.
func (t *ShotTensor) Clone() *ShotTensor {
	out := NewShotTensor(t.GamesN, t.TimeBins, t.Cells)
	copy(out.data, t.data)
	return out
}

// GameTotal sums one channel over all time bins and cells of a single game.
func (t *ShotTensor) GameTotal(g, ch int) float64 {
	total := 0.0
	for tb := 0; tb < t.TimeBins; tb++ {
		for c := 0; c < t.Cells; c++ {
			total += t.At(g, tb, c, ch)
		}
	}
	return total
}

// ModeSlab is a single-channel 3-D view [game][time_bin][cell], the shape the
// factorizer consumes.
type ModeSlab struct {
	GamesN   int
	TimeBins int
	Cells    int
	Data     []float64
}

// ChannelSlab extracts one channel as a contiguous ModeSlab copy.
func (t *ShotTensor) ChannelSlab(ch int) *ModeSlab {
	slab := &ModeSlab{
		GamesN:   t.GamesN,
		TimeBins: t.TimeBins,
		Cells:    t.Cells,
		Data:     make([]float64, t.GamesN*t.TimeBins*t.Cells),
	}
	i := 0
	for g := 0; g < t.GamesN; g++ {
		for tb := 0; tb < t.TimeBins; tb++ {
			for c := 0; c < t.Cells; c++ {
				slab.Data[i] = t.At(g, tb, c, ch)
				i++
			}
		}
	}
	return slab
}

// At returns the slab value at [g][tb][c].
func (s *ModeSlab) At(g, tb, c int) float64 {
	return s.Data[(g*s.TimeBins+tb)*s.Cells+c]
}
