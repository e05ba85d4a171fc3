package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// JsonConfig is the DTO for reading a JSON configuration file. Duration
// fields use timex.Duration so files can say "1h" or "720h" instead of
// nanosecond counts. Absent fields leave the corresponding Config values
// untouched.
type JsonConfig struct {
	EndpointAddr          *string         `json:"endpoint_addr"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	AccessTokenValidity   *timex.Duration `json:"access_token_validity"`
	RefreshTokenValidity  *timex.Duration `json:"refresh_token_validity"`
	RefreshCandidateLimit *int            `json:"refresh_candidate_limit"`
	ArgonMemoryKiB        *uint32         `json:"argon_memory_kib"`
	ArgonTime             *uint32         `json:"argon_time"`
	ArgonParallelism      *uint8          `json:"argon_parallelism"`
	SecureCookies         *bool           `json:"secure_cookies"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, when one is given.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("config file read error: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config file parse error: %w", err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidity != nil {
		config.AccessTokenValidity = c.AccessTokenValidity.Duration
	}
	if c.RefreshTokenValidity != nil {
		config.RefreshTokenValidity = c.RefreshTokenValidity.Duration
	}
	if c.RefreshCandidateLimit != nil {
		config.RefreshCandidateLimit = *c.RefreshCandidateLimit
	}
	if c.ArgonMemoryKiB != nil {
		config.ArgonMemoryKiB = *c.ArgonMemoryKiB
	}
	if c.ArgonTime != nil {
		config.ArgonTime = *c.ArgonTime
	}
	if c.ArgonParallelism != nil {
		config.ArgonParallelism = *c.ArgonParallelism
	}
	if c.SecureCookies != nil {
		config.SecureCookies = *c.SecureCookies
	}

	return nil
}
