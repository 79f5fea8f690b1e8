// Package app wires the pure computation core to the collaborator ports as
// request-scoped services. All analysis state lives in an explicit Session
// owned by the caller; the services themselves are stateless.
package app

import (
	"gonum.org/v1/gonum/mat"

	"shotlens/domain/court"
	"shotlens/domain/tensor"
)

// Analysis modes.
const (
	ModePlayer     = "player"
	ModeTeamSeason = "team_season"
)

// Session is the caller-owned context for one analysis: the built tensors,
// their row index, and the latest factorization products. The boundary layer
// decides its lifetime; core operations only read or replace its fields.
type Session struct {
	Mode string
	Grid court.GridSpec

	Raw        *tensor.ShotTensor
	Normalized *tensor.ShotTensor
	Index      tensor.GameIndex
	Labels     []int

	// Events retained after binning, game ids already relabeled to the
	// joint key. Backs the raw-shot listing for a cluster.
	Events []court.ShotEvent

	// Factorization products for the configured channel.
	Channel     int
	Dims        tensor.LatentDims
	Latent      *mat.Dense
	Projections tensor.ProjectionMatrices
	Embedding   *mat.Dense
}

// Ready reports whether factorization products are present.
func (s *Session) Ready() bool {
	return s != nil && s.Latent != nil && len(s.Projections) > 0
}

// Rows returns the tensor row count.
func (s *Session) Rows() int {
	if s == nil || s.Raw == nil {
		return 0
	}
	return s.Raw.GamesN
}
