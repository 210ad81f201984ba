package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration
type Config struct {
	// niri IPC configuration
	IPC IPCConfig `yaml:"ipc"`

	// Output document configuration
	Output OutputConfig `yaml:"output"`

	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// Recorder configuration
	Recorder RecorderConfig `yaml:"recorder"`

	// Daemon configuration
	Daemon DaemonConfig `yaml:"daemon"`

	// Report configuration
	Report ReportConfig `yaml:"report"`

	// Web server configuration
	Web WebConfig `yaml:"web"`

	// Log configuration
	Log LogConfig `yaml:"log"`
}

// IPCConfig holds niri connection configuration
type IPCConfig struct {
	SocketPath     string        `yaml:"socket_path"`     // Empty means NIRI_SOCKET or discovery in XDG_RUNTIME_DIR
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // Bound on connect + subscribe, never on reading events
}

// OutputConfig holds emitted document configuration
type OutputConfig struct {
	Format string `yaml:"format"` // "json" or "yaml"
	Pretty bool   `yaml:"pretty"` // Indent JSON documents
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database file
}

// RecorderConfig holds focus journal configuration
type RecorderConfig struct {
	Enabled   bool          `yaml:"enabled"`   // Record focus changes and processed events
	Retention time.Duration `yaml:"retention"` // Journal entries older than this are pruned at startup, 0 keeps everything
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `yaml:"pid_file"` // Path to PID file for daemon management
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	TimeZone string `yaml:"time_zone"`
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string `yaml:"host"` // Host to bind web server to
	Port int    `yaml:"port"` // Port for web server
}

// LogConfig holds logging configuration
type LogConfig struct {
	File    string `yaml:"file"`    // Daemon log file
	Verbose bool   `yaml:"verbose"` // Log every received event
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		IPC: IPCConfig{
			SocketPath:     "",
			ConnectTimeout: 5 * time.Second,
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: false,
		},
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.local/share/niribar/niribar.db
		},
		Recorder: RecorderConfig{
			Enabled:   false,
			Retention: 90 * 24 * time.Hour,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/niribar-%d.pid", os.Getuid()),
		},
		Report: ReportConfig{
			TimeZone: "Local",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid()%50000,
		},
		Log: LogConfig{
			File:    fmt.Sprintf("/tmp/niribar-%d.log", os.Getuid()),
			Verbose: false,
		},
	}
}

// DefaultFilePath returns $XDG_CONFIG_HOME/niribar/config.yaml
func DefaultFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "niribar", "config.yaml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Format != "json" && c.Output.Format != "yaml" {
		return fmt.Errorf("output format must be json or yaml, got %q", c.Output.Format)
	}

	if c.IPC.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %v", c.IPC.ConnectTimeout)
	}

	if c.Recorder.Retention < 0 {
		return fmt.Errorf("recorder retention cannot be negative")
	}

	if _, err := time.LoadLocation(c.Report.TimeZone); err != nil {
		return fmt.Errorf("invalid report time zone %q: %w", c.Report.TimeZone, err)
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  IPC:
    Socket Path: %s
    Connect Timeout: %v
  Output:
    Format: %s
    Pretty: %v
  Database:
    Path: %s
  Recorder:
    Enabled: %v
    Retention: %v
  Daemon:
    PID File: %s
  Report:
    Time Zone: %s
  Web:
    Host: %s
    Port: %d
  Log:
    File: %s
    Verbose: %v`,
		c.IPC.SocketPath,
		c.IPC.ConnectTimeout,
		c.Output.Format,
		c.Output.Pretty,
		c.Database.Path,
		c.Recorder.Enabled,
		c.Recorder.Retention,
		c.Daemon.PIDFile,
		c.Report.TimeZone,
		c.Web.Host,
		c.Web.Port,
		c.Log.File,
		c.Log.Verbose,
	)
}
