package court

import (
	"fmt"

	"shotlens/domain/core"
)

// ShotEvent is one shot attempt in the canonical half-court frame. Event
// sources are responsible for coordinate normalization; by the time an event
// reaches the tensor builder X/Y are already in court units.
type ShotEvent struct {
	GameID       int64
	EntityID     int64
	Period       int
	RemainingSec int
	X            float64
	Y            float64
	Made         bool
	PointValue   int
	ActionType   string
	ShotType     string
}

// Validate checks the fields every downstream computation relies on. A
// violation is fatal for the whole batch, not a per-row skip.
func (e ShotEvent) Validate() error {
	if e.Period < 1 {
		return fmt.Errorf("%w: period %d", core.ErrInvalidEvent, e.Period)
	}
	if e.RemainingSec < 0 {
		return fmt.Errorf("%w: remaining seconds %d", core.ErrInvalidEvent, e.RemainingSec)
	}
	if e.PointValue != 2 && e.PointValue != 3 {
		return fmt.Errorf("%w: point value %d", core.ErrInvalidEvent, e.PointValue)
	}
	return nil
}

// ThreePoint reports whether the shot was taken from beyond the arc.
func (e ShotEvent) ThreePoint() bool { return e.PointValue == 3 }

// EFGWeight is the effective-field-goal credit for a make from this location:
// three-point makes count 1.5x relative to two-point makes.
func (e ShotEvent) EFGWeight() float64 {
	if e.ThreePoint() {
		return 1.5
	}
	return 1.0
}
