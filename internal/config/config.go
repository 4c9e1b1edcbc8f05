package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level hookbridge configuration.
type Config struct {
	ClaudeHome    string `mapstructure:"claude_home"`
	DataDir       string `mapstructure:"data_dir"`
	ListenHost    string `mapstructure:"listen_host"`
	ListenPort    int    `mapstructure:"listen_port"`
	RetentionDays int    `mapstructure:"retention_days"`
	Output        Output `mapstructure:"output"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// ListenAddr returns the host:port the hook listener binds to. port
// overrides the configured one when positive, so a --port flag wins.
func (c *Config) ListenAddr(port int) string {
	if port <= 0 {
		port = c.ListenPort
	}
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(port))
}

// DBPath returns the full path to the SQLite database under the data root.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DefaultDBName)
}

// SettingsPath returns the path of the user's Claude settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.ClaudeHome, "settings.json")
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("claude_home", DefaultClaudeHome)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("listen_host", DefaultListenHost)
	v.SetDefault("listen_port", DefaultListenPort)
	v.SetDefault("retention_days", DefaultRetentionDays)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Expand paths.
	cfg.ClaudeHome = expandPath(cfg.ClaudeHome)
	cfg.DataDir = expandPath(cfg.DataDir)

	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
