package cmd

import (
	"fmt"
	"os"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "visitor-api",
		Short: "Visitor management API",
		Long: `visitor-api runs the visitor management backend: company registration,
visitor check-in and check-out, pre-registrations with QR codes, reports and
host arrival notifications.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				logger.SetDefault(logger.New(os.Stdout, logLevel))
			}
		},
		// serve is the default command
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL or info")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(versionCmd)
}
