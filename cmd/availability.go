package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuscal/deptsched/core/availability"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/schedule"
	"github.com/campuscal/deptsched/pkg/export"
)

var (
	availInstructor string
	availCSV        bool
)

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Print an instructor's weekly free slots",
	RunE:  runAvailability,
}

func init() {
	availabilityCmd.Flags().StringVar(&availInstructor, "instructor", "", "instructor name")
	availabilityCmd.Flags().BoolVar(&availCSV, "csv", false, "emit CSV instead of JSON")
	rootCmd.AddCommand(availabilityCmd)
}

func runAvailability(cmd *cobra.Command, args []string) error {
	if availInstructor == "" {
		return fmt.Errorf("--instructor is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}
	params, err := cfg.Engine.Params()
	if err != nil {
		return err
	}

	idx := schedule.Build(records)
	week := availability.WeekFreeSlots(idx, model.EntityFor(availInstructor), params)
	if availCSV {
		return export.WriteSlotsCSV(cmd.OutOrStdout(), week)
	}
	return export.WriteSlotsJSON(cmd.OutOrStdout(), week)
}
