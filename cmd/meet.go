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
	meetInstructors []string
	meetDuration    int
	meetCSV         bool
)

var meetCmd = &cobra.Command{
	Use:   "meet",
	Short: "Find windows where all selected instructors are free",
	RunE:  runMeet,
}

func init() {
	meetCmd.Flags().StringSliceVar(&meetInstructors, "instructor", nil, "instructor name (repeatable)")
	meetCmd.Flags().IntVar(&meetDuration, "duration", 0, "meeting length in minutes (default from config)")
	meetCmd.Flags().BoolVar(&meetCSV, "csv", false, "emit CSV instead of JSON")
	rootCmd.AddCommand(meetCmd)
}

func runMeet(cmd *cobra.Command, args []string) error {
	if len(meetInstructors) == 0 {
		return fmt.Errorf("at least one --instructor is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}
	params, err := cfg.Engine.MeetingParams()
	if err != nil {
		return err
	}
	if meetDuration > 0 {
		params.MeetingMinutes = meetDuration
	}

	var entities []model.Entity
	for _, name := range meetInstructors {
		entities = append(entities, model.EntityFor(name))
	}

	idx := schedule.Build(records)
	week := availability.WeekCommonFreeSlots(idx, entities, params)
	if meetCSV {
		return export.WriteSlotsCSV(cmd.OutOrStdout(), week)
	}
	return export.WriteSlotsJSON(cmd.OutOrStdout(), week)
}
