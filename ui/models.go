package ui

import (
	"shotlens/domain/court"
	"shotlens/ports"
)

// InitializeRequest configures a fresh analysis. Zero-valued grid fields
// fall back to the configured defaults.
type InitializeRequest struct {
	Mode      string  `json:"mode"`
	PlayerIDs []int64 `json:"player_ids"`

	XBins          int   `json:"x_bins"`
	YBins          int   `json:"y_bins"`
	TimeBinSeconds int   `json:"time_bin_seconds"`
	Channel        int   `json:"channel"`
	LatentDims     []int `json:"latent_dims"`
}

// SessionResponse summarizes the session after initialize or recompute.
type SessionResponse struct {
	Mode       string      `json:"mode"`
	Games      int         `json:"games"`
	TimeBins   int         `json:"time_bins"`
	Cells      int         `json:"cells"`
	Cohorts    []string    `json:"cohorts"`
	Labels     []int       `json:"labels"`
	LatentDims []int       `json:"latent_dims"`
	Embedding  [][]float64 `json:"embedding"`
}

// RecomputeRequest refits the decomposition with explicit class weights.
type RecomputeRequest struct {
	ClassWeights []ports.ClassWeights `json:"class_weights"`
	LatentDims   []int                `json:"latent_dims"`
}

// AggregateClusterRequest asks for per-cell statistics over selected tensor
// rows. An empty cluster selects every row; time_bin -1 spans all bins.
type AggregateClusterRequest struct {
	Cluster  []int `json:"cluster"`
	Channel  int   `json:"channel"`
	Ratio    bool  `json:"ratio"`
	Weighted bool  `json:"weighted"`
	TimeBin  *int  `json:"time_bin"`
}

// AggregateClusterResponse carries per-cell values; attempts accompany
// ratio answers.
type AggregateClusterResponse struct {
	Values   []float64 `json:"values"`
	Attempts []float64 `json:"attempts,omitempty"`
}

// AnalyzeClustersRequest asks which court regions and times separate two
// clusters.
type AnalyzeClustersRequest struct {
	Cluster1 []int `json:"cluster1"`
	Cluster2 []int `json:"cluster2"`
	ZScore   bool  `json:"zscore"`
}

// AnalyzeClustersResponse is the back-projected contribution map.
type AnalyzeClustersResponse struct {
	Dims []int     `json:"dims"`
	Data []float64 `json:"data"`
}

// ClusterShotsRequest lists raw shots behind a cluster.
type ClusterShotsRequest struct {
	Cluster []int `json:"cluster"`
	TimeBin *int  `json:"time_bin"`
}

// ShotRecord is one raw shot in a listing.
type ShotRecord struct {
	GameID       int64   `json:"game_id"`
	PlayerID     int64   `json:"player_id"`
	Period       int     `json:"period"`
	RemainingSec int     `json:"remaining_seconds"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Made         bool    `json:"made"`
	PointValue   int     `json:"point_value"`
	ActionType   string  `json:"action_type"`
	ShotType     string  `json:"shot_type"`
}

func toShotRecords(events []court.ShotEvent) []ShotRecord {
	out := make([]ShotRecord, len(events))
	for i, ev := range events {
		out[i] = ShotRecord{
			GameID:       ev.GameID,
			PlayerID:     ev.EntityID,
			Period:       ev.Period,
			RemainingSec: ev.RemainingSec,
			X:            ev.X,
			Y:            ev.Y,
			Made:         ev.Made,
			PointValue:   ev.PointValue,
			ActionType:   ev.ActionType,
			ShotType:     ev.ShotType,
		}
	}
	return out
}
