// Package hooks generates the transient Claude Code settings file that
// registers hookbridge's SessionStart forwarder, and removes it again on
// shutdown. The generated file is merged additively into the user's own
// ~/.claude/settings.json so existing hooks and unrelated settings survive.
package hooks

// SessionStartEvent is the settings.json event name the forwarder is
// registered under. Claude Code fires it on new sessions, resumed sessions,
// and after compaction.
const SessionStartEvent = "SessionStart"

// ForwarderScript is the filename of the relay script, resolved relative to
// the hookbridge installation root.
const ForwarderScript = "hook-forward.sh"

// HookGroup represents one registered action for a lifecycle event in
// settings.json.
type HookGroup struct {
	Matcher string `json:"matcher,omitempty"`
	Hooks   []Hook `json:"hooks"`
}

// Hook represents a single hook definition.
type Hook struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}
