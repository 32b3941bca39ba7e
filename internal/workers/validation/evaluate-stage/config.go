// internal/workers/validation/evaluate-stage/config.go
package evaluatestage

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
