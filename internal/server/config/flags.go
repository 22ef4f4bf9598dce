package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/runauth/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   database DSN
//	-n string   database name (Mongo)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes (0 disables expiry)
//	-x bool     rotate refresh tokens on refresh (use -x=true)
//	-p string   password hasher: bcrypt or argon2id
//	-m bool     use Mongo transactions for registration (use -m=true)
//	-l string   log level
//	-e string   environment name
//	-w int      graceful shutdown timeout, seconds
//
// Duration flags are accepted as integers and converted to time.Duration.
// A duration is only overwritten when its flag is present, so sub-minute
// values loaded from JSON survive.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-n", "-s", "-t", "-r", "-x", "-p", "-m", "-l", "-e", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseName, "n", config.DatabaseName, "database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.BoolVar(&config.RotateRefreshTokens, "x", config.RotateRefreshTokens, "rotate refresh tokens")
	fs.StringVar(&config.PasswordHasher, "p", config.PasswordHasher, "password hasher (bcrypt, argon2id)")
	fs.BoolVar(&config.MongoTransactions, "m", config.MongoTransactions, "use mongo transactions")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	shutdownTimeout := fs.Int("w", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		case "w":
			config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
		}
	})
}
