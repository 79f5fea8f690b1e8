// Package normalize prepares a raw shot tensor for factorization with the
// two-step standardization pipeline: volume normalization of the frequency
// channel, then per-channel per-position z-scoring across games. The step
// order is load-bearing; z-scoring must see volume-normalized frequencies.
package normalize

import (
	"github.com/montanaflynn/stats"

	"shotlens/domain/tensor"
)

// Normalize returns a standardized copy of the tensor; the input is left
// untouched so aggregation queries keep operating on raw counts.
func Normalize(t *tensor.ShotTensor) *tensor.ShotTensor {
	out := t.Clone()
	if out.GamesN == 0 {
		return out
	}
	volumeNormalize(out)
	zscoreColumns(out)
	return out
}

// volumeNormalize divides each game's frequency channel by that game's total
// attempts so high-volume games do not dominate the spatial profile. A game
// with zero attempts divides by 1, never producing NaN. All other channels
// keep their raw counts.
func volumeNormalize(t *tensor.ShotTensor) {
	for g := 0; g < t.GamesN; g++ {
		total := t.GameTotal(g, tensor.ChannelAttempts)
		if total == 0 {
			total = 1
		}
		for tb := 0; tb < t.TimeBins; tb++ {
			for c := 0; c < t.Cells; c++ {
				t.Set(g, tb, c, tensor.ChannelFrequency,
					t.At(g, tb, c, tensor.ChannelFrequency)/total)
			}
		}
	}
}

// zscoreColumns standardizes each channel independently: every (time, cell)
// position is a column over the game axis, rescaled to zero mean and unit
// variance. Positions with zero spread map to all-zero; normalization is
// never pooled across positions or channels.
func zscoreColumns(t *tensor.ShotTensor) {
	column := make([]float64, t.GamesN)
	for ch := 0; ch < tensor.NumChannels; ch++ {
		for tb := 0; tb < t.TimeBins; tb++ {
			for c := 0; c < t.Cells; c++ {
				for g := 0; g < t.GamesN; g++ {
					column[g] = t.At(g, tb, c, ch)
				}
				mean, err := stats.Mean(column)
				if err != nil {
					continue
				}
				std, err := stats.StandardDeviationPopulation(column)
				if err != nil {
					continue
				}
				for g := 0; g < t.GamesN; g++ {
					if std == 0 {
						t.Set(g, tb, c, ch, 0)
						continue
					}
					t.Set(g, tb, c, ch, (column[g]-mean)/std)
				}
			}
		}
	}
}
