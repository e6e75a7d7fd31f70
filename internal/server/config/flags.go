package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/rateday/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e",
	"-vapid-public", "-vapid-private", "-vapid-subject",
	"-reminder-time", "-tz", "-workers", "-dev", "-log-level",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              gRPC bind address (e.g., ":50051")
//	-d string              database DSN (postgres:// or mongodb://)
//	-s string              JWT HMAC secret key
//	-t int                 access token validity, minutes
//	-u string              S3 root user
//	-p string              S3 root password
//	-b string              S3 bucket name
//	-g string              S3 region
//	-e string              S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-vapid-public string   VAPID public key
//	-vapid-private string  VAPID private key
//	-vapid-subject string  VAPID subject (mailto: or URL)
//	-reminder-time string  daily reminder time of day, HH:MM
//	-tz string             reminder timezone (IANA name)
//	-workers int           concurrent push deliveries per sweep
//	-dev                   enable development-only endpoints
//	-log-level string      debug, info, warn or error
//
// Only the flags listed above are picked out of os.Args, see flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.VAPIDPublicKey, "vapid-public", config.VAPIDPublicKey, "VAPID public key")
	fs.StringVar(&config.VAPIDPrivateKey, "vapid-private", config.VAPIDPrivateKey, "VAPID private key")
	fs.StringVar(&config.VAPIDSubject, "vapid-subject", config.VAPIDSubject, "VAPID subject")

	fs.StringVar(&config.ReminderTime, "reminder-time", config.ReminderTime, "daily reminder time (HH:MM)")
	fs.StringVar(&config.ReminderTimezone, "tz", config.ReminderTimezone, "reminder timezone")
	fs.IntVar(&config.ReminderConcurrency, "workers", config.ReminderConcurrency, "concurrent push deliveries")
	fs.BoolVar(&config.DevMode, "dev", config.DevMode, "development mode")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	if config.ReminderConcurrency < 1 {
		config.ReminderConcurrency = 1
	}
}
