package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// hooksSubdir is the directory under the data root that holds generated
// settings files.
const hooksSubdir = "tmp/hooks"

// Dirs supplies the filesystem roots the generator depends on. All three are
// absolute paths provided by the caller, so tests can point every side effect
// at a temp directory.
type Dirs struct {
	// DataDir is the hookbridge data root; generated files live under
	// DataDir/tmp/hooks.
	DataDir string

	// ClaudeHome is the Claude Code data directory whose settings.json is
	// merged into the generated file.
	ClaudeHome string

	// InstallDir is the directory holding the forwarder script.
	InstallDir string
}

// Generator produces and removes per-process transient settings files.
type Generator struct {
	dirs Dirs
	pid  int
	diag func(Event)
}

// Option configures a Generator.
type Option func(*Generator)

// WithPID overrides the process identifier embedded in generated filenames.
func WithPID(pid int) Option {
	return func(g *Generator) { g.pid = pid }
}

// WithDiagnostics sets the sink that receives recovered-failure events.
func WithDiagnostics(fn func(Event)) Option {
	return func(g *Generator) { g.diag = fn }
}

// NewGenerator creates a Generator rooted at the given directories.
func NewGenerator(dirs Dirs, opts ...Option) *Generator {
	g := &Generator{
		dirs: dirs,
		pid:  os.Getpid(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Command returns the shell command registered for the SessionStart hook.
// The script path is quoted so paths containing spaces stay shell-parsable.
func (g *Generator) Command(port int) string {
	script := filepath.Join(g.dirs.InstallDir, ForwarderScript)
	return fmt.Sprintf("bash %q %d", script, port)
}

// FilePath returns the path Generate will write for this process.
func (g *Generator) FilePath() string {
	return filepath.Join(g.dirs.DataDir, hooksSubdir, FileName(g.pid))
}

// FileName returns the generated filename for a given process identifier.
// Embedding the pid keeps concurrently running instances from clobbering
// each other's files.
func FileName(pid int) string {
	return fmt.Sprintf("session-hook-%d.json", pid)
}

// PIDFromName extracts the process identifier from a generated filename.
// Returns false for names this package did not produce.
func PIDFromName(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "session-hook-")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, ".json")
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(rest)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Dir returns the directory generated files are written to under dataDir.
func Dir(dataDir string) string {
	return filepath.Join(dataDir, hooksSubdir)
}

// Generate writes a transient settings file registering the SessionStart
// forwarder for the given port and returns its absolute path.
//
// The user's own settings.json is merged in: every top-level key and every
// hook event array passes through unchanged, and the new entry is appended
// after any existing SessionStart entries. A missing or broken user file is
// never fatal; generation then proceeds from empty settings. Directory
// creation and the final write are fatal and return *FSError.
func (g *Generator) Generate(port int) (string, error) {
	dir := Dir(g.dirs.DataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &FSError{Op: "creating hooks dir", Path: dir, Err: err}
	}

	settings := g.loadUserSettings()
	entry := HookGroup{
		Matcher: "*",
		Hooks:   []Hook{{Type: "command", Command: g.Command(port)}},
	}
	merged := g.merge(settings, entry)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding merged settings: %w", err)
	}

	path := filepath.Join(dir, FileName(g.pid))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &FSError{Op: "writing settings file", Path: path, Err: err}
	}
	return path, nil
}

// Cleanup deletes a previously generated file. A missing file is fine; any
// other failure is reported to the diagnostic sink and swallowed, since
// cleanup runs on shutdown paths where an error would help nobody.
func (g *Generator) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		g.emit(Event{Op: OpRemoveFile, Path: path, Err: err})
	}
}

// loadUserSettings reads and parses ClaudeHome/settings.json. Every failure
// mode degrades to empty settings after a diagnostic event.
func (g *Generator) loadUserSettings() map[string]json.RawMessage {
	path := filepath.Join(g.dirs.ClaudeHome, "settings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			g.emit(Event{Op: OpReadSettings, Path: path, Err: err})
		}
		return nil
	}

	var settings map[string]json.RawMessage
	if err := json.Unmarshal(data, &settings); err != nil {
		g.emit(Event{Op: OpParseSettings, Path: path, Err: err})
		return nil
	}
	return settings
}

// merge returns the user settings with entry appended to hooks.SessionStart.
// Raw messages keep unknown keys and other event arrays byte-for-byte intact.
// A hooks value or SessionStart array of the wrong shape is discarded (with a
// diagnostic event) rather than aborting; everything else still passes through.
func (g *Generator) merge(settings map[string]json.RawMessage, entry HookGroup) map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage, len(settings)+1)
	for k, v := range settings {
		merged[k] = v
	}

	events := make(map[string]json.RawMessage)
	if raw, ok := merged["hooks"]; ok {
		if err := json.Unmarshal(raw, &events); err != nil {
			g.emit(Event{Op: OpSettingsShape, Path: "hooks", Err: err})
			events = make(map[string]json.RawMessage)
		}
	}

	var sessionStart []json.RawMessage
	if raw, ok := events[SessionStartEvent]; ok {
		if err := json.Unmarshal(raw, &sessionStart); err != nil {
			g.emit(Event{Op: OpSettingsShape, Path: "hooks." + SessionStartEvent, Err: err})
			sessionStart = nil
		}
	}

	// entry contains only marshalable fields, so these cannot fail.
	entryJSON, _ := json.Marshal(entry)
	sessionStart = append(sessionStart, entryJSON)

	events[SessionStartEvent], _ = json.Marshal(sessionStart)
	merged["hooks"], _ = json.Marshal(events)
	return merged
}

func (g *Generator) emit(e Event) {
	if g.diag != nil {
		g.diag(e)
	}
}
