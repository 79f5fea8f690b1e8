// Package config assembles runtime configuration from defaults, an optional
// YAML file and environment variables.
package config

import (
	"time"

	"shotlens/adapters/compute"
	"shotlens/adapters/csvsource"
	"shotlens/adapters/db"
	"shotlens/adapters/excel"
)

// Config is the full service configuration.
type Config struct {
	Addr string `koanf:"addr"`

	// League picks the event source: "bleague" (Excel workbook) or "nba"
	// (shot-detail CSV).
	League string `koanf:"league"`

	Excel excel.Config     `koanf:"excel"`
	CSV   csvsource.Config `koanf:"csv"`

	Grid GridConfig `koanf:"grid"`

	Compute compute.Config `koanf:"compute"`

	Snapshots SnapshotConfig `koanf:"snapshots"`
}

// GridConfig sets the default tensor discretization. Requests may override
// any of these per initialization.
type GridConfig struct {
	XBins          int   `koanf:"x_bins"`
	YBins          int   `koanf:"y_bins"`
	TimeBinSeconds int   `koanf:"time_bin_seconds"`
	LatentDims     []int `koanf:"latent_dims"`
}

// SnapshotConfig enables the optional snapshot store.
type SnapshotConfig struct {
	Enabled bool `koanf:"enabled"`
	db.Config    `koanf:",squash"`
}

// New returns the defaults: a local B.League setup with a 5x5 half-court
// grid and 4-minute bins.
func New() *Config {
	return &Config{
		Addr:   ":8080",
		League: "bleague",
		Excel: excel.Config{
			FilePath: "data/shot_events.xlsx",
		},
		CSV: csvsource.Config{
			FilePath: "data/shotdetail.csv",
		},
		Grid: GridConfig{
			XBins:          5,
			YBins:          5,
			TimeBinSeconds: 240,
			// Two entries, one per projectable mode (time, space); the
			// factorized slab is single-channel.
			LatentDims: []int{4, 12},
		},
		Compute: compute.Config{
			BaseURL:   "http://localhost:8500",
			Timeout:   2 * time.Minute,
			EmbedSeed: 42,
		},
		Snapshots: SnapshotConfig{
			Enabled: false,
			Config: db.Config{
				Driver: "sqlite",
				DSN:    "shotlens.db",
			},
		},
	}
}
