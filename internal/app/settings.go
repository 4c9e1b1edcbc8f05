package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/hookbridge/internal/config"
	"github.com/blackwell-systems/hookbridge/internal/hooks"
)

var settingsPort int

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Generate or inspect the transient settings file",
}

var settingsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the transient settings file and print its path",
	Long: `Write the merged settings file for this process without starting the
listener. Useful when an external supervisor runs the listener and only
needs the file, or for inspecting exactly what would be handed to Claude.

The file registers a SessionStart forwarder pointing at the given port and
carries over everything from ~/.claude/settings.json.`,
	RunE: runSettingsGenerate,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path for this machine's running instance",
	RunE:  runSettingsPath,
}

func init() {
	settingsGenerateCmd.Flags().IntVar(&settingsPort, "port", 0, "Listener port to embed (default from config)")
	settingsCmd.AddCommand(settingsGenerateCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func newGenerator(cfg *config.Config) *hooks.Generator {
	return hooks.NewGenerator(hooks.Dirs{
		DataDir:    cfg.DataDir,
		ClaudeHome: cfg.ClaudeHome,
		InstallDir: installDir(),
	}, hooks.WithDiagnostics(printDiagnostic))
}

func runSettingsGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	port := settingsPort
	if port <= 0 {
		port = cfg.ListenPort
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	path, err := newGenerator(cfg).Generate(port)
	if err != nil {
		return fmt.Errorf("generating hook settings: %w", err)
	}

	fmt.Println(path)
	return nil
}

// runSettingsPath prints the settings file belonging to the running serve
// instance, resolved through its PID file. This is what shell wrappers pass
// to claude --settings.
func runSettingsPath(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pid, err := readPID()
	if err != nil {
		return fmt.Errorf("no serve instance running (could not read PID file: %v)", err)
	}
	if !processExists(pid) {
		return fmt.Errorf("no serve instance running (PID %d is not active)", pid)
	}

	fmt.Println(filepath.Join(hooks.Dir(cfg.DataDir), hooks.FileName(pid)))
	return nil
}
