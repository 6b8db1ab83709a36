package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/rooms"
	"github.com/campuscal/deptsched/core/schedule"
	"github.com/campuscal/deptsched/core/timecode"
)

var (
	roomsDay   string
	roomsStart string
	roomsEnd   string
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List rooms free for a candidate meeting window",
	RunE:  runRooms,
}

func init() {
	roomsCmd.Flags().StringVar(&roomsDay, "day", "", "day code (M/T/W/R/F)")
	roomsCmd.Flags().StringVar(&roomsStart, "start", "", `meeting start, e.g. "1:00 pm"`)
	roomsCmd.Flags().StringVar(&roomsEnd, "end", "", `meeting end, e.g. "2:00 pm"`)
	rootCmd.AddCommand(roomsCmd)
}

func runRooms(cmd *cobra.Command, args []string) error {
	day, ok := model.ParseDayCode(roomsDay)
	if !ok {
		return fmt.Errorf("invalid day code %q", roomsDay)
	}
	start, err := timecode.ParseClock(roomsStart)
	if err != nil {
		return fmt.Errorf("start %q: %w", roomsStart, err)
	}
	end, err := timecode.ParseClock(roomsEnd)
	if err != nil {
		return fmt.Errorf("end %q: %w", roomsEnd, err)
	}
	meeting := model.Interval{Start: start, End: end}
	if !meeting.Valid() {
		return fmt.Errorf("meeting start must precede end")
	}
	records, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}

	idx := schedule.Build(records)
	for _, room := range rooms.Free(idx, day, meeting) {
		fmt.Fprintln(cmd.OutOrStdout(), room)
	}
	return nil
}
