package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/runauth/internal/flagx"
	"github.com/dmitrijs2005/runauth/internal/timex"
)

// JsonConfig is the on-disk shape of the server config. Durations use
// timex.Duration, so "30m" and integer nanoseconds are both accepted.
// Booleans are pointers so an absent key leaves the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	DatabaseDSN                  string          `json:"database_dsn"`
	DatabaseName                 string          `json:"database_name"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	RotateRefreshTokens          *bool           `json:"rotate_refresh_tokens"`
	PasswordHasher               string          `json:"password_hasher"`
	BcryptCost                   int             `json:"bcrypt_cost"`
	MongoTransactions            *bool           `json:"mongo_transactions"`
	LogLevel                     string          `json:"log_level"`
	Environment                  string          `json:"environment"`
	ShutdownTimeout              *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays config with the JSON file named by -c/-config.
// Keys missing from the file keep their current values. Read or decode
// errors panic, matching the flag parser.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DatabaseName, c.DatabaseName)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.Environment, c.Environment)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.RotateRefreshTokens != nil {
		config.RotateRefreshTokens = *c.RotateRefreshTokens
	}
	if c.MongoTransactions != nil {
		config.MongoTransactions = *c.MongoTransactions
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
