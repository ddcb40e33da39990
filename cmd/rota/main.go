package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/rota/internal/cli"
	"github.com/example/rota/internal/version"
)

func main() {
	var asFlag string

	rootCmd := &cobra.Command{
		Use:     "rota",
		Short:   "rota - round-robin work item assignment",
		Version: version.String(),
		Long: `rota routes leads and tickets to users by role-based round-robin
rotation, creates follow-up tasks, and sweeps overdue tasks to the
next eligible user.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.DetectAndStoreActor(asFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&asFlag, "as", "", "Act as this user ID (default: $ROTA_USER, then admin)")

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.AssignCmd())
	rootCmd.AddCommand(cli.TrackerCmd())
	rootCmd.AddCommand(cli.SweepCmd())
	rootCmd.AddCommand(cli.RequestCmd())
	rootCmd.AddCommand(cli.HoursCmd())
	rootCmd.AddCommand(cli.HolidayCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.InboxCmd())
	rootCmd.AddCommand(cli.LeadCmd())
	rootCmd.AddCommand(cli.TicketCmd())
	rootCmd.AddCommand(cli.TaskCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
