package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/hookbridge/internal/config"
	"github.com/blackwell-systems/hookbridge/internal/hooks"
)

var cleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated settings files left behind",
	Long: `Sweep the tmp/hooks directory for settings files whose owning process
is no longer running. Files belonging to live processes are kept unless
--all is given.

A file is orphaned when serve was killed before its shutdown cleanup ran.
Orphans are harmless (Claude only reads the file it was launched with) but
accumulate over time.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove files for live processes too")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir := hooks.Dir(cfg.DataDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Nothing to clean.")
			return nil
		}
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	removed := 0
	kept := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pid, ok := hooks.PIDFromName(entry.Name())
		if !ok {
			continue
		}
		if !cleanAll && processExists(pid) {
			kept++
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "could not remove %s: %v\n", path, err)
			continue
		}
		removed++
		if flagVerbose {
			fmt.Println("removed", path)
		}
	}

	fmt.Printf("Removed %d orphaned file(s)", removed)
	if kept > 0 {
		fmt.Printf(", kept %d belonging to running processes", kept)
	}
	fmt.Println()
	return nil
}
