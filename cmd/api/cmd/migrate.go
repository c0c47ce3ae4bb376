package cmd

import (
	"fmt"
	"strconv"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/config"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/database"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := database.MigrateUp(cfg.Database.URL); err != nil {
			return err
		}
		return printVersion(cmd, cfg.Database.URL)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1 step)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		cfg := config.Load()
		if err := database.MigrateDown(cfg.Database.URL, steps); err != nil {
			return err
		}
		return printVersion(cmd, cfg.Database.URL)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd, config.Load().Database.URL)
	},
}

func printVersion(cmd *cobra.Command, databaseURL string) error {
	v, dirty, err := database.MigrationVersion(databaseURL)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("Schema version", "version", v, "dirty", dirty)
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", v, dirty)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}
