// internal/workers/scoring/detect-bluff-signals/config.go
package detectbluffsignals

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
