package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/wire"
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Office hours schedule",
	Long:  "Show and edit the workday windows that gate automatic assignment",
}

var hoursShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the weekly schedule and holidays",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		days, holidays, err := wire.OfficeHoursService().Schedule(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schedule: %w", err)
		}

		open, err := wire.OfficeHoursService().IsOpen(ctx)
		if err != nil {
			return err
		}
		if open {
			fmt.Println("\nOffice is OPEN")
		} else {
			fmt.Println("\nOffice is CLOSED")
		}
		fmt.Println()

		if len(days) == 0 {
			fmt.Println("No workday windows configured")
		} else {
			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "DAY\tWINDOW")
			fmt.Fprintln(w, "---\t------")
			for _, d := range days {
				window := "closed"
				if d.Open {
					window = fmt.Sprintf("%s - %s", d.StartTime, d.EndTime)
				}
				fmt.Fprintf(w, "%s\t%s\n", d.Weekday, window)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}

		if len(holidays) > 0 {
			fmt.Println("\nHolidays:")
			for _, h := range holidays {
				if h.Description != "" {
					fmt.Printf("  %s  %s\n", h.Day, h.Description)
				} else {
					fmt.Printf("  %s\n", h.Day)
				}
			}
		}
		fmt.Println()

		return nil
	},
}

var hoursSetCmd = &cobra.Command{
	Use:   "set [weekday] [start] [end]",
	Short: "Set the window for one weekday (HH:MM times)",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		closed, _ := cmd.Flags().GetBool("closed")

		day := primary.ServiceDay{Weekday: args[0], Open: !closed}
		if closed {
			if len(args) != 1 {
				return fmt.Errorf("--closed takes no start/end times")
			}
		} else {
			if len(args) != 3 {
				return fmt.Errorf("usage: rota hours set <weekday> <start> <end>")
			}
			day.StartTime = args[1]
			day.EndTime = args[2]
		}

		ctx := NewContext()
		if err := wire.OfficeHoursService().SetServiceDay(ctx, day); err != nil {
			return fmt.Errorf("failed to set office hours: %w", err)
		}

		if closed {
			fmt.Printf("✓ %s marked closed\n", day.Weekday)
		} else {
			fmt.Printf("✓ %s set to %s - %s\n", day.Weekday, day.StartTime, day.EndTime)
		}
		return nil
	},
}

var holidayCmd = &cobra.Command{
	Use:   "holiday",
	Short: "Holiday calendar",
	Long:  "Manage the holidays on which automatic assignment is suspended",
}

var holidayAddCmd = &cobra.Command{
	Use:   "add [date]",
	Short: "Add a holiday (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := args[0]
		note, _ := cmd.Flags().GetString("note")

		ctx := NewContext()
		if err := wire.OfficeHoursService().AddHoliday(ctx, day, note); err != nil {
			return fmt.Errorf("failed to add holiday: %w", err)
		}

		fmt.Printf("✓ Holiday added: %s\n", day)
		return nil
	},
}

var holidayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List holidays in the active calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		_, holidays, err := wire.OfficeHoursService().Schedule(ctx)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}

		if len(holidays) == 0 {
			fmt.Println("No holidays configured")
			return nil
		}

		for _, h := range holidays {
			if h.Description != "" {
				fmt.Printf("%s  %s\n", h.Day, h.Description)
			} else {
				fmt.Println(h.Day)
			}
		}
		return nil
	},
}

// HoursCmd returns the hours command
func HoursCmd() *cobra.Command {
	hoursSetCmd.Flags().Bool("closed", false, "Mark the weekday closed")

	hoursCmd.AddCommand(hoursShowCmd)
	hoursCmd.AddCommand(hoursSetCmd)

	return hoursCmd
}

// HolidayCmd returns the holiday command
func HolidayCmd() *cobra.Command {
	holidayAddCmd.Flags().StringP("note", "n", "", "Description of the holiday")

	holidayCmd.AddCommand(holidayAddCmd)
	holidayCmd.AddCommand(holidayListCmd)

	return holidayCmd
}
