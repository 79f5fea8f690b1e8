package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"shotlens/domain/core"
	"shotlens/domain/court"
	"shotlens/domain/tensor"
	"shotlens/internal/binning"
	"shotlens/internal/metrics"
	"shotlens/internal/normalize"
	"shotlens/ports"
)

// Service runs the analysis pipeline over caller-supplied sessions. It holds
// only collaborator ports, never analysis state.
type Service struct {
	events     ports.EventSource
	factorizer ports.Factorizer
	embedder   ports.Embedder
	estimator  ports.ImportanceEstimator
	snapshots  ports.SnapshotStore // optional
}

// NewService assembles a service. snapshots may be nil to disable
// persistence.
func NewService(
	events ports.EventSource,
	factorizer ports.Factorizer,
	embedder ports.Embedder,
	estimator ports.ImportanceEstimator,
	snapshots ports.SnapshotStore,
) *Service {
	return &Service{
		events:     events,
		factorizer: factorizer,
		embedder:   embedder,
		estimator:  estimator,
		snapshots:  snapshots,
	}
}

// InitializeParams configures a fresh tensor build and first factorization.
type InitializeParams struct {
	Mode      string
	PlayerIDs []int64

	GridXBins      int
	GridYBins      int
	TimeBinSeconds int

	Channel int
	Dims    tensor.LatentDims
}

// Initialize rebuilds the session from scratch: load events, bin cohorts
// into the raw tensor, normalize, factorize the configured channel with
// default class weights, and embed the latent features. An entity set with
// no matching games yields a valid zero-row session, not an error.
func (s *Service) Initialize(ctx context.Context, p InitializeParams) (*Session, error) {
	grid, err := court.NewGridSpec(p.GridXBins, p.GridYBins, p.TimeBinSeconds, s.events.PeriodSeconds())
	if err != nil {
		return nil, err
	}

	cohorts, err := s.loadCohorts(ctx, p)
	if err != nil {
		return nil, err
	}

	built, err := binning.BuildCohorts(grid, cohorts...)
	if err != nil {
		return nil, err
	}
	metrics.TensorBuilds.WithLabelValues(p.Mode).Inc()
	metrics.EventsRetained.Add(float64(built.Retained))
	metrics.EventsDropped.Add(float64(built.Dropped))
	log.Printf("[AnalysisService] built tensor mode=%s games=%d time_bins=%d cells=%d retained=%d dropped=%d",
		p.Mode, built.Tensor.GamesN, grid.TimeBins, grid.NumCells(), built.Retained, built.Dropped)

	sess := &Session{
		Mode:    p.Mode,
		Grid:    grid,
		Raw:     built.Tensor,
		Index:   built.Index,
		Labels:  built.Index.Labels(),
		Events:  built.Events,
		Channel: p.Channel,
		Dims:    p.Dims,
	}
	sess.Normalized = normalize.Normalize(built.Tensor)

	if sess.Rows() == 0 {
		// Valid empty outcome; nothing to factorize.
		log.Printf("[AnalysisService] no games matched, returning empty session")
		return sess, nil
	}

	if err := s.factorize(ctx, sess, ports.DefaultClassWeights(numClasses(sess.Labels)), p.Dims); err != nil {
		return nil, err
	}
	s.persistSnapshot(ctx, sess)
	return sess, nil
}

// Recompute refits the decomposition with new per-class weights and latent
// dims over the session's existing normalized tensor, then re-embeds.
func (s *Service) Recompute(ctx context.Context, sess *Session, weights []ports.ClassWeights, dims tensor.LatentDims) error {
	if sess == nil || sess.Normalized == nil {
		return core.ErrNotInitialized
	}
	if len(weights) != numClasses(sess.Labels) {
		return fmt.Errorf("%w: %d class weights for %d classes",
			core.ErrPrecondition, len(weights), numClasses(sess.Labels))
	}
	if err := s.factorize(ctx, sess, weights, dims); err != nil {
		return err
	}
	s.persistSnapshot(ctx, sess)
	return nil
}

// factorize runs fit + weighted refit + embedding and installs the products
// on the session. The fit/refit split mirrors the factorizer contract: the
// refit reuses the slab without it being passed again.
func (s *Service) factorize(ctx context.Context, sess *Session, weights []ports.ClassWeights, dims tensor.LatentDims) error {
	slab := sess.Normalized.ChannelSlab(sess.Channel)

	if _, err := s.factorizer.Fit(ctx, slab, sess.Labels, dims); err != nil {
		return err
	}
	fact, err := s.factorizer.RefitWithWeights(ctx, weights)
	if err != nil {
		return err
	}

	embedding, err := s.embedder.FitTransform(ctx, fact.Latent)
	if err != nil {
		return err
	}

	sess.Dims = dims
	sess.Latent = fact.Latent
	sess.Projections = fact.Projections
	sess.Embedding = embedding
	return nil
}

func (s *Service) loadCohorts(ctx context.Context, p InitializeParams) ([]binning.Cohort, error) {
	switch p.Mode {
	case ModeTeamSeason:
		seasons, err := s.events.SeasonShots(ctx)
		if err != nil {
			return nil, err
		}
		cohorts := make([]binning.Cohort, len(seasons))
		for i, season := range seasons {
			cohorts[i] = binning.TeamSeasonCohort{Season: season.Season, Events: season.Events}
		}
		return cohorts, nil
	case ModePlayer:
		players, err := s.events.PlayerShots(ctx, p.PlayerIDs)
		if err != nil {
			return nil, err
		}
		cohorts := make([]binning.Cohort, len(players))
		for i, player := range players {
			cohorts[i] = binning.PlayerCohort{PlayerID: player.PlayerID, Name: player.Name, Events: player.Events}
		}
		return cohorts, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", core.ErrPrecondition, p.Mode)
	}
}

// ListPlayers surfaces the event source's selectable players.
func (s *Service) ListPlayers(ctx context.Context) ([]ports.EntityInfo, error) {
	return s.events.Players(ctx)
}

func (s *Service) persistSnapshot(ctx context.Context, sess *Session) {
	if s.snapshots == nil {
		return
	}
	snap := &ports.Snapshot{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Mode:       sess.Mode,
		Grid:       sess.Grid,
		Index:      sess.Index,
		Labels:     sess.Labels,
		LatentDims: sess.Dims,
		Embedding:  denseRows(sess.Embedding),
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		// Persistence is best-effort; analysis results are already computed.
		log.Printf("[AnalysisService] snapshot save failed: %v", err)
	}
}

func numClasses(labels []int) int {
	max := -1
	for _, l := range labels {
		if l > max {
			max = l
		}
	}
	return max + 1
}
