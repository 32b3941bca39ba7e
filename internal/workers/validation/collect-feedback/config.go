// internal/workers/validation/collect-feedback/config.go
package collectfeedback

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		// Fan-out across personas plus the summary call.
		Timeout: 90 * time.Second,
	}
}
