package tensor

import "shotlens/domain/core"

// GameRef identifies one tensor row. GameID is the joint key when cohorts
// were merged (cohort_index * offset + original id); CohortIndex doubles as
// the classification label downstream.
type GameRef struct {
	GameID      int64  `json:"game_id"`
	CohortIndex int    `json:"cohort_index"`
	Cohort      string `json:"cohort"`
}

// GameIndex maps tensor row -> game. Rows are sorted by ascending GameID;
// every later index-based lookup depends on this ordering.
type GameIndex []GameRef

// GameIDs returns the row-ordered game ids.
func (gi GameIndex) GameIDs() []int64 {
	ids := make([]int64, len(gi))
	for i, r := range gi {
		ids[i] = r.GameID
	}
	return ids
}

// Labels returns the per-row cohort labels, 0..K-1.
func (gi GameIndex) Labels() []int {
	labels := make([]int, len(gi))
	for i, r := range gi {
		labels[i] = r.CohortIndex
	}
	return labels
}

// ClusterSelection is a caller-chosen set of tensor row indices. An empty
// selection means "all rows".
type ClusterSelection []int

// Resolve expands the selection against a tensor of n rows, applying the
// empty-means-all convention and bounds-checking explicit indices.
func (s ClusterSelection) Resolve(n int) ([]int, error) {
	if len(s) == 0 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	out := make([]int, len(s))
	for i, idx := range s {
		if idx < 0 || idx >= n {
			return nil, core.ErrSelectionRange
		}
		out[i] = idx
	}
	return out, nil
}
