// internal/agents/travel-data/airport-index/config.go
package airportindex

import "time"

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:   "airports",
		Timeout: 5 * time.Second,
	}
}
