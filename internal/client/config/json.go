package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/runauth/internal/flagx"
	"github.com/dmitrijs2005/runauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts are
// timex.Duration, so "5s" and integer nanoseconds both work.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the JSON file named by -c or
// -config. Fields absent from the file keep their current value. Read and
// decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
