package config

import (
	"os"

	"github.com/dmitrijs2005/rateday/internal/flagx"
	"github.com/dmitrijs2005/rateday/internal/timex"
)

// FileConfig mirrors Config for file decoding. Zero values leave the
// corresponding Config field untouched.
type FileConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn" toml:"database_dsn"`
	SecretKey                   string         `json:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" toml:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" toml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	VAPIDPublicKey              string         `json:"vapid_public_key" toml:"vapid_public_key"`
	VAPIDPrivateKey             string         `json:"vapid_private_key" toml:"vapid_private_key"`
	VAPIDSubject                string         `json:"vapid_subject" toml:"vapid_subject"`
	ReminderTime                string         `json:"reminder_time" toml:"reminder_time"`
	ReminderTimezone            string         `json:"reminder_timezone" toml:"reminder_timezone"`
	ReminderConcurrency         int            `json:"reminder_concurrency" toml:"reminder_concurrency"`
	DevMode                     *bool          `json:"dev_mode" toml:"dev_mode"`
	LogLevel                    string         `json:"log_level" toml:"log_level"`
}

// parseFile overlays cfg with the file named by -c or -config.
// It panics on read or decode errors.
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
	setString(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.VAPIDPublicKey, fc.VAPIDPublicKey)
	setString(&cfg.VAPIDPrivateKey, fc.VAPIDPrivateKey)
	setString(&cfg.VAPIDSubject, fc.VAPIDSubject)
	setString(&cfg.ReminderTime, fc.ReminderTime)
	setString(&cfg.ReminderTimezone, fc.ReminderTimezone)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.AccessTokenValidityDuration.Duration != 0 {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.ReminderConcurrency > 0 {
		cfg.ReminderConcurrency = fc.ReminderConcurrency
	}
	if fc.DevMode != nil {
		cfg.DevMode = *fc.DevMode
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

