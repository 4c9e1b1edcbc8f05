package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/hookbridge/internal/config"
	"github.com/blackwell-systems/hookbridge/internal/output"
	"github.com/blackwell-systems/hookbridge/internal/store"
)

var (
	eventsSession string
	eventsDays    int
	eventsLimit   int
	eventsJSON    bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded session events",
	Long: `Display session lifecycle events received while serve was running.

Examples:
  hookbridge events                      # most recent events
  hookbridge events --days 7             # last week only
  hookbridge events --session abc-123    # one session's lifecycle
  hookbridge events --json               # machine-readable output`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSession, "session", "", "Filter by session ID")
	eventsCmd.Flags().IntVar(&eventsDays, "days", 0, "Filter to last N days")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "Maximum number of events to show (0 = all)")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}
	output.AutoColor()

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QuerySessionEvents(store.EventFilter{
		SessionID: eventsSession,
		Days:      eventsDays,
		Limit:     eventsLimit,
	})
	if err != nil {
		return fmt.Errorf("querying events: %w", err)
	}

	if eventsJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No session events recorded yet. Run 'hookbridge serve' and start a Claude session.")
		return nil
	}

	fmt.Println(output.Section("Session Events"))
	fmt.Println()

	tbl := output.NewTable("Time", "Session", "Source", "Directory")
	for _, r := range rows {
		timeStr := r.ReceivedAt
		if t, err := time.Parse(time.RFC3339, r.ReceivedAt); err == nil {
			timeStr = t.Local().Format("2006-01-02 15:04")
		}
		tbl.AddRow(timeStr, shortID(r.SessionID), r.Source, r.CWD)
	}
	tbl.Print()

	return nil
}
