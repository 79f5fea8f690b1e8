package ports

import (
	"context"
	"time"

	"shotlens/domain/court"
	"shotlens/domain/tensor"
)

// Snapshot records the durable outline of one analysis: enough to list what
// was computed and re-attach a frontend, without the bulky tensors.
type Snapshot struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Mode       string            `json:"mode"`
	Grid       court.GridSpec    `json:"grid"`
	Index      tensor.GameIndex  `json:"index"`
	Labels     []int             `json:"labels"`
	LatentDims tensor.LatentDims `json:"latent_dims"`
	Embedding  [][]float64       `json:"embedding"`
}

// SnapshotStore persists analysis snapshots. Persistence is best-effort at
// the boundary; the computation core never depends on it.
type SnapshotStore interface {
	Save(ctx context.Context, s *Snapshot) error
	Latest(ctx context.Context) (*Snapshot, error)
	Close() error
}
