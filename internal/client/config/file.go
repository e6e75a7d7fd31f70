package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/rateday/internal/flagx"
	"github.com/dmitrijs2005/rateday/internal/timex"
)

// FileConfig is a DTO used exclusively for decoding config files. Fields
// left out of the file keep the value they already had.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" toml:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" toml:"online_check_interval"`
	PingTimeout         timex.Duration `json:"ping_timeout" toml:"ping_timeout"`
	RequestTimeout      timex.Duration `json:"request_timeout" toml:"request_timeout"`
	SweepInterval       timex.Duration `json:"sweep_interval" toml:"sweep_interval"`
	DataDir             string         `json:"data_dir" toml:"data_dir"`
	Profile             string         `json:"profile" toml:"profile"`
	AccessToken         string         `json:"access_token" toml:"access_token"`
	UI                  string         `json:"ui" toml:"ui"`
	LogLevel            string         `json:"log_level" toml:"log_level"`
}

// parseFile overlays cfg with the file named by -c or -config. JSON and
// TOML are supported; it panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := flagx.DecodeConfigFile(path, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.Profile, fc.Profile)
	setString(&cfg.AccessToken, fc.AccessToken)
	setString(&cfg.UI, fc.UI)
	setString(&cfg.LogLevel, fc.LogLevel)

	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	setDuration(&cfg.PingTimeout, fc.PingTimeout)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setDuration(&cfg.SweepInterval, fc.SweepInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
