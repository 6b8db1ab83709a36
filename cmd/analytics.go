package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/campuscal/deptsched/core/analytics"
	"github.com/campuscal/deptsched/core/schedule"
	"github.com/campuscal/deptsched/pkg/export"
)

var analyticsRoomsCSV bool

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print workload and utilization analytics for a roster",
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().BoolVar(&analyticsRoomsCSV, "rooms-csv", false, "emit per-room utilization as CSV")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}
	window, err := cfg.Engine.Window()
	if err != nil {
		return err
	}

	idx := schedule.Build(records)
	rep := analytics.Aggregate(idx, analytics.Params{Window: window})

	if analyticsRoomsCSV {
		order := make([]string, 0, len(rep.Rooms))
		for room := range rep.Rooms {
			order = append(order, room)
		}
		sort.Strings(order)
		return export.WriteRoomsCSV(cmd.OutOrStdout(), order, rep.Rooms)
	}
	return export.WriteReportJSON(cmd.OutOrStdout(), rep)
}
