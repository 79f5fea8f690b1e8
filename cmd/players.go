package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"shotlens/internal/config"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List selectable players in the configured event source",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		events, err := newEventSource(cfg)
		if err != nil {
			return err
		}

		players, err := events.Players(cmd.Context())
		if err != nil {
			return err
		}

		table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		table.Header("PLAYER ID", "NAME", "GAMES")
		for _, p := range players {
			table.Append(
				fmt.Sprintf("%d", p.ID),
				p.Name,
				fmt.Sprintf("%d", p.GameCount),
			)
		}
		table.Render()
		fmt.Fprintf(os.Stdout, "\n(%d players)\n", len(players))
		return nil
	},
}
