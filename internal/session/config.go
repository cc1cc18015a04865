// internal/session/config.go
package session

import "time"

type Config struct {
	KeyPrefix string
	TTL       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		KeyPrefix: "travelbot:session:",
		TTL:       24 * time.Hour,
	}
}
