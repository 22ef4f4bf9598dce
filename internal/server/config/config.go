// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: store DSN; the scheme picks the backend
//     (mongodb://, mongodb+srv://, postgres://, postgresql://, memory://).
//   - DatabaseName: Mongo database holding the users and statistics collections.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - RefreshTokenValidityDuration: refresh token lifetime, zero means no exp claim.
//   - RotateRefreshTokens: mint a new refresh token on every refresh.
//   - PasswordHasher / BcryptCost: algorithm used for new password hashes.
//   - MongoTransactions: run registration in a multi-document transaction
//     (needs a replica set).
type Config struct {
	EndpointAddrHTTP             string
	DatabaseDSN                  string
	DatabaseName                 string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	RotateRefreshTokens          bool
	PasswordHasher               string
	BcryptCost                   int
	MongoTransactions            bool
	LogLevel                     string
	Environment                  string
	ShutdownTimeout              time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.DatabaseDSN = "mongodb://localhost:27017"
	c.DatabaseName = "runauth"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.RotateRefreshTokens = false
	c.PasswordHasher = "bcrypt"
	c.BcryptCost = 10
	c.MongoTransactions = false
	c.LogLevel = "info"
	c.Environment = "development"
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is empty"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token validity must be positive"))
	}
	if c.RefreshTokenValidityDuration < 0 {
		errs = append(errs, errors.New("refresh token validity must not be negative"))
	}
	return errors.Join(errs...)
}
