package binning

import (
	"fmt"
	"sort"

	"shotlens/domain/court"
	"shotlens/domain/tensor"
)

// GameIDOffset separates the game-id spaces of merged cohorts. Joint key:
// cohort_index * GameIDOffset + original game id. Must exceed the largest
// source game id; NBA shot-detail ids run to 8 digits, so a 10^9 stride
// keeps joint keys collision-free.
const GameIDOffset = 1_000_000_000

// Cohort supplies the events and label for one comparison group. Player and
// team/season tensor building share the same binning path and differ only in
// how a cohort is assembled.
type Cohort interface {
	Label() string
	Shots() []court.ShotEvent
}

// PlayerCohort groups the shots of a single player.
type PlayerCohort struct {
	PlayerID int64
	Name     string
	Events   []court.ShotEvent
}

func (c PlayerCohort) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("player_%d", c.PlayerID)
}

func (c PlayerCohort) Shots() []court.ShotEvent { return c.Events }

// TeamSeasonCohort groups all of a team's shots in one season.
type TeamSeasonCohort struct {
	Season string
	Events []court.ShotEvent
}

func (c TeamSeasonCohort) Label() string            { return c.Season }
func (c TeamSeasonCohort) Shots() []court.ShotEvent { return c.Events }

// BuildCohorts merges K cohorts into one tensor. Each cohort's game ids are
// relabeled to the joint key so rows stay unique across cohorts, and every
// row is tagged with its cohort index 0..K-1, the downstream classification
// label. Row order is ascending by joint key, which groups rows by cohort.
func BuildCohorts(grid court.GridSpec, cohorts ...Cohort) (*Result, error) {
	var merged []court.ShotEvent
	labelOf := make(map[int64]tensor.GameRef)

	for ci, cohort := range cohorts {
		for _, ev := range cohort.Shots() {
			if err := ev.Validate(); err != nil {
				return nil, fmt.Errorf("cohort %q rejected: %w", cohort.Label(), err)
			}
			ev.GameID = int64(ci)*GameIDOffset + ev.GameID
			merged = append(merged, ev)
			if _, ok := labelOf[ev.GameID]; !ok {
				labelOf[ev.GameID] = tensor.GameRef{
					GameID:      ev.GameID,
					CohortIndex: ci,
					Cohort:      cohort.Label(),
				}
			}
		}
	}

	refs := make(tensor.GameIndex, 0, len(labelOf))
	for _, r := range labelOf {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].GameID < refs[j].GameID })

	return accumulate(grid, merged, refs)
}
