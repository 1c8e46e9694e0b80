package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/foodshare/foodshare/internal/flagx"
	"github.com/foodshare/foodshare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerAddr          string         `json:"server_addr"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SubmitTimeout       timex.Duration `json:"submit_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file resolved
// via the -c/-config flags. If no file is given, nothing happens. Read or
// unmarshal errors panic; intended usage is defaults -> parseJson ->
// parseFlags, where later stages override earlier ones.
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

	if jc.ServerAddr != "" {
		cfg.ServerAddr = jc.ServerAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SubmitTimeout.Duration != 0 {
		cfg.SubmitTimeout = time.Duration(jc.SubmitTimeout.Duration)
	}
}
