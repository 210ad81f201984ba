package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default and file values
func LoadFromEnv(cfg *Config) {
	// IPC configuration
	if socket := os.Getenv("NIRI_SOCKET"); socket != "" {
		cfg.IPC.SocketPath = socket
	}

	if timeout := os.Getenv("NIRIBAR_CONNECT_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			cfg.IPC.ConnectTimeout = time.Duration(seconds) * time.Second
		}
	}

	// Output configuration
	if format := os.Getenv("NIRIBAR_FORMAT"); format != "" {
		cfg.Output.Format = format
	}

	if pretty := os.Getenv("NIRIBAR_PRETTY"); pretty != "" {
		if val, err := strconv.ParseBool(pretty); err == nil {
			cfg.Output.Pretty = val
		}
	}

	// Database configuration
	if dbPath := os.Getenv("NIRIBAR_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Recorder configuration
	if record := os.Getenv("NIRIBAR_RECORD"); record != "" {
		if val, err := strconv.ParseBool(record); err == nil {
			cfg.Recorder.Enabled = val
		}
	}

	if retention := os.Getenv("NIRIBAR_RETENTION_DAYS"); retention != "" {
		if days, err := strconv.Atoi(retention); err == nil && days >= 0 {
			cfg.Recorder.Retention = time.Duration(days) * 24 * time.Hour
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("NIRIBAR_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Report configuration
	if timeZone := os.Getenv("NIRIBAR_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}

	// Web configuration
	if webHost := os.Getenv("NIRIBAR_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("NIRIBAR_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	// Log configuration
	if logFile := os.Getenv("NIRIBAR_LOG_FILE"); logFile != "" {
		cfg.Log.File = logFile
	}

	if verbose := os.Getenv("NIRIBAR_VERBOSE"); verbose != "" {
		if val, err := strconv.ParseBool(verbose); err == nil {
			cfg.Log.Verbose = val
		}
	}
}

// New creates a Config from defaults, the config file and the environment.
// The file is NIRIBAR_CONFIG when set, else DefaultFilePath(); a missing
// default file is not an error.
func New() (*Config, error) {
	return Load("")
}

// Load is New with an explicit config file path taking precedence over NIRIBAR_CONFIG
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("NIRIBAR_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultFilePath()
	}
	if path != "" {
		if err := LoadFromFile(cfg, path); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
