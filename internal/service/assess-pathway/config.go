// internal/service/assess-pathway/config.go
package assesspathway

import "time"

type Config struct {
	Timeout         time.Duration
	ScoringStrategy string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		ScoringStrategy: "weighted",
	}
}
