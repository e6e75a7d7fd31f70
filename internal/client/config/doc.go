// Package config loads runtime configuration for the rateday client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .toml are TOML, anything else is JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Intervals are timex.Duration values, so "3s" and integer nanoseconds
// both work:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "sweep_interval": "1m",
//	  "profile": "work",
//	  "ui": "tui"
//	}
//
// The same keys are used in TOML.
package config
