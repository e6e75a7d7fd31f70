package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	UIRepl = "repl"
	UITUI  = "tui"
)

// Config holds runtime settings for the rateday client.
//
// Durations are time.Duration values; in files they are written as "3s"
// or integer nanoseconds (see timex.Duration).
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	PingTimeout         time.Duration
	RequestTimeout      time.Duration
	SweepInterval       time.Duration

	// DataDir holds one subdirectory per Profile with its database and log.
	DataDir string
	Profile string

	AccessToken string
	UI          string
	LogLevel    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.PingTimeout = 3 * time.Second
	c.RequestTimeout = 5 * time.Second
	c.SweepInterval = time.Minute
	c.DataDir = defaultDataDir()
	c.Profile = "default"
	c.UI = UIRepl
	c.LogLevel = "info"
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "rateday")
	}
	return ".rateday"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
