// internal/service/recommend-tasks/config.go
package recommendtasks

import "time"

type Config struct {
	Timeout         time.Duration
	MappingStrategy string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		MappingStrategy: "exact-table",
	}
}
