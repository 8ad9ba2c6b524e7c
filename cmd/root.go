package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// Running streamctl bare opens the dashboard.
var rootCmd = &cobra.Command{
	Use:   "streamctl",
	Short: "Control panel for the device-streaming runtime",
	Long: `streamctl is a terminal panel for a remote device-streaming server.
It shows live session and device state, lets you edit server settings,
restart the runtime and install server or client releases.`,
	// SilenceUsage prevents printing usage on errors we handle ourselves.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "streamctl version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: runDashboard reads rootCmd.Version.
	rootCmd.RunE = runDashboard
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
