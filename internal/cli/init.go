package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the rota database",
		Long:  `Initialize the rota database at ~/.rota/rota.db with the required schema and write a default config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing rota database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			fmt.Println("✓ Config file created at ~/.rota/config.yaml")

			if seed {
				database, err := db.GetDB()
				if err != nil {
					return err
				}
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Development fixtures loaded")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  rota user add ann --name \"Ann Blake\"")
			fmt.Println("  rota user grant ann \"Sales User\"")
			fmt.Println("  rota lead create \"Acme Corp\"")
			fmt.Println("  rota assign role LEAD-001")

			return nil
		},
	}
	cmd.Flags().Bool("seed", false, "Load development fixtures")
	return cmd
}

// initConfig writes the default config file unless one already exists.
func initConfig() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	return config.Save(dir, cfg)
}
