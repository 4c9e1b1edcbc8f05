package hooks

import (
	"fmt"
	"sync"
)

// Op identifies the operation a diagnostic event originated from.
type Op string

// Diagnostic operations.
const (
	OpReadSettings  Op = "read_settings"
	OpParseSettings Op = "parse_settings"
	OpSettingsShape Op = "settings_shape"
	OpRemoveFile    Op = "remove_file"
)

// Event records a recovered, non-fatal failure: a broken user settings file,
// an unexpected shape inside it, or a cleanup that could not delete its
// target. Events reach the sink configured with WithDiagnostics; they are
// never surfaced as errors to callers.
type Event struct {
	Op   Op
	Path string
	Err  error
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Recorder is a diagnostic sink that retains every event it receives.
// Useful in tests and for --verbose output.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record appends an event. Safe for concurrent use.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
