package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"shotlens/adapters/compute"
	"shotlens/adapters/db"
	"shotlens/app"
	"shotlens/internal/config"
	"shotlens/ports"
	"shotlens/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		events, err := newEventSource(cfg)
		if err != nil {
			return err
		}

		client := compute.NewClient(cfg.Compute)

		var snapshots ports.SnapshotStore
		if cfg.Snapshots.Enabled {
			store, err := db.OpenSnapshotStore(context.Background(), cfg.Snapshots.Config)
			if err != nil {
				return err
			}
			defer store.Close()
			snapshots = store
		} else {
			log.Printf("[Serve] snapshot persistence disabled")
		}

		svc := app.NewService(
			events,
			compute.NewFactorizer(client),
			compute.NewEmbedder(client, cfg.Compute.EmbedSeed),
			compute.NewEstimator(client),
			snapshots,
		)

		return ui.NewServer(svc, cfg.Grid).Run(cfg.Addr)
	},
}
