package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the rota environment",
		Long: `Health check for the rota installation.

Validates:
- The ~/.rota directory and database file
- Database schema (tables present)
- Config file parses

Examples:
  rota doctor              # Run full health check
  rota doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkDatabase(),
				checkSchema(),
				checkConfig(),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						fmt.Printf("%s: %s\n", r.Name, r.Details)
					}
				}
			}

			if hasErrors {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Exit code only, no output")
	return cmd
}

func checkDatabase() CheckResult {
	result := CheckResult{Name: "Database"}

	dbPath, err := db.GetDBPath()
	if err != nil {
		result.Status = "✗"
		result.Details = err.Error()
		return result
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		result.Status = "✗"
		result.Details = fmt.Sprintf("%s does not exist, run 'rota init'", dbPath)
		return result
	}

	result.Status = "✓"
	return result
}

func checkSchema() CheckResult {
	result := CheckResult{Name: "Schema"}

	database, err := db.GetDB()
	if err != nil {
		result.Status = "✗"
		result.Details = err.Error()
		return result
	}

	required := []string{"users", "leads", "tickets", "tasks", "role_trackers", "assignment_requests", "service_days"}
	for _, table := range required {
		var count int
		err := database.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&count)
		if err != nil || count == 0 {
			result.Status = "✗"
			result.Details = fmt.Sprintf("table %q missing, run 'rota init'", table)
			return result
		}
	}

	result.Status = "✓"
	return result
}

func checkConfig() CheckResult {
	result := CheckResult{Name: "Config"}

	dir, err := config.ConfigDir()
	if err != nil {
		result.Status = "✗"
		result.Details = err.Error()
		return result
	}
	if _, err := config.Load(dir); err != nil {
		result.Status = "✗"
		result.Details = err.Error()
		return result
	}

	result.Status = "✓"
	return result
}
