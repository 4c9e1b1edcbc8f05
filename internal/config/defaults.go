// Package config provides configuration loading and defaults for hookbridge.
package config

// DefaultClaudeHome is the default location of Claude Code's data directory.
const DefaultClaudeHome = "~/.claude"

// DefaultConfigDir is the default location for hookbridge configuration.
const DefaultConfigDir = "~/.config/hookbridge"

// DefaultDataDir is the default root for hookbridge's own data: the event
// database and the tmp/hooks directory of generated settings files.
const DefaultDataDir = "~/.local/share/hookbridge"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "hookbridge.db"

// DefaultListenHost is the default bind address for the hook listener.
// Loopback only: the forwarder always runs on the same machine.
const DefaultListenHost = "127.0.0.1"

// DefaultListenPort is the default port for the hook listener.
const DefaultListenPort = 9313

// DefaultRetentionDays is how long recorded session events are kept before
// pruning.
const DefaultRetentionDays = 90

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
