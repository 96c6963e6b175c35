// internal/workers/scoring/recommend-improvements/config.go
package recommendimprovements

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
