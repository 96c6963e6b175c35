// internal/workers/scoring/calculate-qscore/config.go
package calculateqscore

import (
	"time"

	"qscore-workers/internal/qscore"
)

type Config struct {
	Timeout       time.Duration
	DefaultSector string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		DefaultSector: qscore.DefaultSector,
	}
}
