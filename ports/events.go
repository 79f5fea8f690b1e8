// Package ports defines the interfaces the analysis core consumes. External
// collaborators - event sources, the factorization/embedding/classifier
// sidecar, snapshot persistence - live behind these contracts.
package ports

import (
	"context"

	"shotlens/domain/court"
)

// EntityInfo describes a selectable player.
type EntityInfo struct {
	ID        int64  `json:"player_id"`
	Name      string `json:"player_name"`
	GameCount int    `json:"game_count"`
}

// PlayerShots is one player's event batch, already in the canonical frame.
type PlayerShots struct {
	PlayerID int64
	Name     string
	Events   []court.ShotEvent
}

// SeasonShots is one season's team-wide event batch.
type SeasonShots struct {
	Season string
	Events []court.ShotEvent
}

// EventSource produces shot events for a request. Implementations must fail
// the whole batch when a required source field is absent; per-row skipping is
// reserved for rows the source legitimately filters (non-shot actions,
// missing coordinates, overtime).
type EventSource interface {
	PlayerShots(ctx context.Context, playerIDs []int64) ([]PlayerShots, error)
	SeasonShots(ctx context.Context) ([]SeasonShots, error)
	Players(ctx context.Context) ([]EntityInfo, error)

	// PeriodSeconds is the league's period length, needed to size the grid.
	PeriodSeconds() int
}
