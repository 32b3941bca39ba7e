// internal/workers/validation/stage-criteria/config.go
package stagecriteria

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		// Pure lookup except for the optional completed-stages query.
		Timeout: 10 * time.Second,
	}
}
