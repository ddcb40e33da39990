package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/rota/internal/wire"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Overdue reassignment sweep",
	Long:  "Run the batch job that hands overdue follow-up tasks to the next eligible user",
}

var sweepRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one sweep pass over overdue tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		result, err := wire.SweepService().Run(ctx)
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}

		if result.Skipped {
			fmt.Println("Sweep skipped: office is closed")
			return nil
		}

		fmt.Printf("✓ Sweep complete: %d checked, %d reassigned, %d exhausted\n",
			result.Checked, result.Reassigned, result.Exhausted)
		return nil
	},
}

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	sweepCmd.AddCommand(sweepRunCmd)
	return sweepCmd
}
