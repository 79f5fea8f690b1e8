package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"shotlens/domain/court"
	"shotlens/domain/tensor"
	"shotlens/internal/binning"
	"shotlens/internal/config"
)

// inspect builds the season tensor offline and prints per-cohort shooting
// totals. No sidecar involved; this is a data sanity check.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the configured event source as per-season shooting totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		events, err := newEventSource(cfg)
		if err != nil {
			return err
		}

		grid, err := court.NewGridSpec(cfg.Grid.XBins, cfg.Grid.YBins, cfg.Grid.TimeBinSeconds, events.PeriodSeconds())
		if err != nil {
			return err
		}

		seasons, err := events.SeasonShots(cmd.Context())
		if err != nil {
			return err
		}
		cohorts := make([]binning.Cohort, len(seasons))
		for i, season := range seasons {
			cohorts[i] = binning.TeamSeasonCohort{Season: season.Season, Events: season.Events}
		}

		built, err := binning.BuildCohorts(grid, cohorts...)
		if err != nil {
			return err
		}

		type totals struct {
			name                         string
			games                        int
			attempts, makes, points, efg float64
		}
		byCohort := make(map[int]*totals)
		order := make([]int, 0)
		for row, ref := range built.Index {
			t, ok := byCohort[ref.CohortIndex]
			if !ok {
				t = &totals{name: ref.Cohort}
				byCohort[ref.CohortIndex] = t
				order = append(order, ref.CohortIndex)
			}
			t.games++
			t.attempts += built.Tensor.GameTotal(row, tensor.ChannelAttempts)
			t.makes += built.Tensor.GameTotal(row, tensor.ChannelMakes)
			t.points += built.Tensor.GameTotal(row, tensor.ChannelPoints)
			t.efg += built.Tensor.GameTotal(row, tensor.ChannelEFGWeight)
		}

		table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		table.Header("COHORT", "GAMES", "FGA", "FGM", "FG%", "PTS", "EFG%")
		for _, ci := range order {
			t := byCohort[ci]
			fgPct, efgPct := 0.0, 0.0
			if t.attempts > 0 {
				fgPct = 100 * t.makes / t.attempts
				efgPct = 100 * t.efg / t.attempts
			}
			table.Append(
				t.name,
				fmt.Sprintf("%d", t.games),
				fmt.Sprintf("%.0f", t.attempts),
				fmt.Sprintf("%.0f", t.makes),
				fmt.Sprintf("%.1f%%", fgPct),
				fmt.Sprintf("%.0f", t.points),
				fmt.Sprintf("%.1f%%", efgPct),
			)
		}
		table.Render()
		fmt.Fprintf(os.Stdout, "\nretained %d events, dropped %d\n", built.Retained, built.Dropped)
		return nil
	},
}
