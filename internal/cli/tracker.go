package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/rota/internal/wire"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Inspect and manage round-robin trackers",
	Long:  "Show rotation state, assignment history, and reset the pointer for a role",
}

var trackerStatusCmd = &cobra.Command{
	Use:   "status [role]",
	Short: "Show the rotation state for a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := args[0]

		ctx := NewContext()
		status, err := wire.TrackerService().Status(ctx, role)
		if err != nil {
			return fmt.Errorf("failed to get tracker status: %w", err)
		}

		fmt.Printf("\nTracker: %s\n", status.RoleName)
		fmt.Printf("Assignments: %d\n", status.AssignmentCount)
		if status.LastAssignedUser != "" {
			fmt.Printf("Last assigned: %s at %s\n", status.LastAssignedUser, status.LastAssignedAt)
		}
		fmt.Println()

		nextMarker := color.New(color.FgHiMagenta).Sprint(" ← next")
		for i, user := range status.UserList {
			marker := ""
			if user == status.NextUser {
				marker = nextMarker
			}
			fmt.Printf("  %d. %s%s\n", i+1, user, marker)
		}
		fmt.Println()

		return nil
	},
}

var trackerHistoryCmd = &cobra.Command{
	Use:   "history [role]",
	Short: "Show recent assignments for a role, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := args[0]
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := NewContext()
		entries, err := wire.TrackerService().History(ctx, role, limit)
		if err != nil {
			return fmt.Errorf("failed to get tracker history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Printf("No assignments recorded for %s\n", role)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tUSER\tITEM\tBY")
		fmt.Fprintln(w, "----\t----\t----\t--")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.AssignedAt, e.User, e.ItemID, e.AssignedBy)
		}
		return w.Flush()
	},
}

var trackerResetCmd = &cobra.Command{
	Use:   "reset [role]",
	Short: "Reset the rotation position to the start of the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := args[0]

		ctx := NewContext()
		if err := wire.TrackerService().Reset(ctx, role); err != nil {
			return fmt.Errorf("failed to reset tracker: %w", err)
		}

		fmt.Printf("✓ Tracker for %s reset to position 0\n", role)
		return nil
	},
}

// TrackerCmd returns the tracker command
func TrackerCmd() *cobra.Command {
	trackerHistoryCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show")

	trackerCmd.AddCommand(trackerStatusCmd)
	trackerCmd.AddCommand(trackerHistoryCmd)
	trackerCmd.AddCommand(trackerResetCmd)

	return trackerCmd
}
