package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/hookbridge/internal/config"
	"github.com/blackwell-systems/hookbridge/internal/hooks"
	"github.com/blackwell-systems/hookbridge/internal/output"
	"github.com/blackwell-systems/hookbridge/internal/relay"
	"github.com/blackwell-systems/hookbridge/internal/store"
	"github.com/blackwell-systems/hookbridge/internal/watcher"
)

var (
	servePort  int
	serveStop  bool
	serveQuiet bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hook listener and register the session hook",
	Long: `Start the hook listener, write the transient settings file that
registers the SessionStart forwarder, and record every forwarded event.
The settings file is removed again on shutdown.

Launch Claude Code against the generated file to activate the hook:

  hookbridge serve &
  claude --settings "$(hookbridge settings path)"

Examples:
  hookbridge serve                 # listen on the configured port
  hookbridge serve --port 8080     # override the listen port
  hookbridge serve --stop          # stop a running instance`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop a running serve instance")
	serveCmd.Flags().BoolVar(&serveQuiet, "quiet", false, "Suppress per-event terminal output")
	rootCmd.AddCommand(serveCmd)
}

// pidFilePath returns the path to the serve PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "serve.pid")
}

// readPID reads the serve PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(data))
}

// installDir returns the directory holding the running executable, which is
// where the forwarder script is installed. Falls back to the working
// directory if the executable path cannot be resolved.
func installDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(exe)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveStop {
		return stopServe()
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}
	output.AutoColor()

	port := servePort
	if port <= 0 {
		port = cfg.ListenPort
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid listen port %d", port)
	}

	// Refuse to double-register on the same machine.
	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("serve already running (PID %d). Use --stop to stop it", pid)
		}
		_ = os.Remove(pidFilePath())
	}
	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if pruned, err := db.PruneSessionEvents(cfg.RetentionDays); err == nil && pruned > 0 && flagVerbose {
		fmt.Printf("pruned %d events older than %d days\n", pruned, cfg.RetentionDays)
	}

	gen := hooks.NewGenerator(hooks.Dirs{
		DataDir:    cfg.DataDir,
		ClaudeHome: cfg.ClaudeHome,
		InstallDir: installDir(),
	}, hooks.WithDiagnostics(printDiagnostic))

	settingsPath, err := gen.Generate(port)
	if err != nil {
		return fmt.Errorf("generating hook settings: %w", err)
	}
	defer gen.Cleanup(settingsPath)

	if !serveQuiet {
		fmt.Println(output.Section("hookbridge serve"))
		fmt.Printf("listening on http://%s/hook\n", cfg.ListenAddr(port))
		fmt.Printf("settings file: %s\n", settingsPath)
		fmt.Printf("activate with: claude --settings %q\n", settingsPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	srv := relay.New(cfg.ListenAddr(port), func(p relay.Payload) {
		row := &store.SessionEventRow{
			SessionID:      p.SessionID,
			EventName:      p.HookEventName,
			Source:         p.Source,
			CWD:            p.CWD,
			TranscriptPath: p.TranscriptPath,
		}
		if err := db.InsertSessionEvent(row); err != nil {
			fmt.Fprintln(os.Stderr, "recording event:", err)
			return
		}
		if !serveQuiet {
			printEvent(row)
		}
	})

	// Regenerate when the user edits their own settings file, so their new
	// hooks and preferences reach the merged file mid-run.
	settingsWatch := watcher.New(cfg.SettingsPath(), func() {
		if _, err := gen.Generate(port); err != nil {
			fmt.Fprintln(os.Stderr, "regenerating hook settings:", err)
			return
		}
		if flagVerbose {
			fmt.Println("user settings changed, regenerated", settingsPath)
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error {
		// The watch is best-effort: a missing ~/.claude directory just means
		// there is nothing to pick up mid-run.
		if err := settingsWatch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			if flagVerbose {
				fmt.Fprintln(os.Stderr, "settings watch disabled:", err)
			}
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		if !serveQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// stopServe signals a running serve instance via its PID file.
func stopServe() error {
	return stopDaemon()
}

// printEvent writes one received event to the terminal.
func printEvent(row *store.SessionEventRow) {
	ts := time.Now().Format("15:04:05")
	source := row.Source
	if source == "" {
		source = "-"
	}
	line := fmt.Sprintf("[%s] %s %s %s", ts, output.StyleBold.Render(shortID(row.SessionID)), source, row.CWD)
	fmt.Println(line)
}

// printDiagnostic surfaces recovered generator failures in verbose mode.
func printDiagnostic(e hooks.Event) {
	if flagVerbose {
		fmt.Fprintln(os.Stderr, "hooks:", e)
	}
}

// shortID shortens a session UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
