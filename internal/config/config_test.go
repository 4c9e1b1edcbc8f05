package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// A missing config file is not an error; defaults apply.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.ListenHost != DefaultListenHost {
		t.Errorf("ListenHost = %q, want %q", cfg.ListenHost, DefaultListenHost)
	}
	if cfg.ListenPort != DefaultListenPort {
		t.Errorf("ListenPort = %d, want %d", cfg.ListenPort, DefaultListenPort)
	}
	if cfg.RetentionDays != DefaultRetentionDays {
		t.Errorf("RetentionDays = %d, want %d", cfg.RetentionDays, DefaultRetentionDays)
	}
	if !cfg.Output.Color {
		t.Error("expected color enabled by default")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
claude_home: /custom/claude
data_dir: /custom/data
listen_port: 8099
retention_days: 7
output:
  color: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ClaudeHome != "/custom/claude" {
		t.Errorf("ClaudeHome = %q", cfg.ClaudeHome)
	}
	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.ListenPort != 8099 {
		t.Errorf("ListenPort = %d", cfg.ListenPort)
	}
	if cfg.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d", cfg.RetentionDays)
	}
	if cfg.Output.Color {
		t.Error("expected color disabled")
	}

	// Host stays at its default when the file does not set it.
	if cfg.ListenHost != DefaultListenHost {
		t.Errorf("ListenHost = %q, want default", cfg.ListenHost)
	}
}

func TestListenAddr(t *testing.T) {
	cfg := &Config{ListenHost: "127.0.0.1", ListenPort: 9313}
	if got := cfg.ListenAddr(0); got != "127.0.0.1:9313" {
		t.Errorf("ListenAddr(0) = %q", got)
	}
	if got := cfg.ListenAddr(8080); got != "127.0.0.1:8080" {
		t.Errorf("ListenAddr(8080) = %q", got)
	}
}

func TestSettingsPath(t *testing.T) {
	cfg := &Config{ClaudeHome: "/home/u/.claude"}
	want := filepath.Join("/home/u/.claude", "settings.json")
	if got := cfg.SettingsPath(); got != want {
		t.Errorf("SettingsPath() = %q, want %q", got, want)
	}
}

func TestDBPath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	want := filepath.Join("/data", DefaultDBName)
	if got := cfg.DBPath(); got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := expandPath("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("expandPath(~/x) = %q", got)
	}
	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("expandPath(/abs/path) = %q", got)
	}
}
