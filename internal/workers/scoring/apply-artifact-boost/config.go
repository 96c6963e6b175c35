// internal/workers/scoring/apply-artifact-boost/config.go
package applyartifactboost

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
