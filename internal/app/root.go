// Package app contains the Cobra command tree for hookbridge.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "hookbridge",
	Short: "Bridge Claude Code session lifecycle events to a local listener",
	Long: `hookbridge registers a SessionStart hook with Claude Code through a
transient, per-process settings file, receives the forwarded lifecycle
events (new session, resume, post-compaction) over a local HTTP listener,
and records them for inspection.

The user's own ~/.claude/settings.json is merged in unchanged; hookbridge
only appends its forwarder entry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("hookbridge", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  serve     Run the hook listener and register the session hook")
		fmt.Println("  events    List recorded session events")
		fmt.Println("  settings  Generate or inspect the transient settings file")
		fmt.Println("  clean     Remove generated settings files left behind")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/hookbridge/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
