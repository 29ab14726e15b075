// Duinobot-monitor is a fleet monitoring utility for DuinoBot robots.
//
// It attaches to a robot fleet over a serial radio link or a TCP-bridged
// WiFi module, decodes the telemetry the robots broadcast, and exposes the
// fleet state as a live terminal dashboard, a one-shot JSON dump, or a
// streaming HTTP/WebSocket server for classroom dashboards.
//
// Usage:
//
//	duinobot-monitor [command] [flags]
//
// See 'duinobot-monitor --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robotgroup/duinobot/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "duinobot-monitor",
	Short: "DuinoBot Fleet Monitor",
	Long: `A monitoring utility for fleets of DuinoBot robots.

Attaches to a fleet over one serial radio link or a TCP connection to a
robot's WiFi module, decodes the telemetry broadcast on the link, and
presents the fleet state as a live dashboard, a JSON dump, or a streaming
web endpoint.

Robots are addressed by the payloads on the link, not by the link itself:
one session observes every robot within radio range.`,
	Version: version.Version,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("duinobot-monitor %s (commit: %s)\n", version.Version, version.Commit)
	},
}
