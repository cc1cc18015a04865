// internal/agents/travel-data/geocoder/config.go
package geocoder

import "time"

type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:    "https://nominatim.openstreetmap.org",
		UserAgent:  "travelbot/1.0",
		Timeout:    10 * time.Second,
		MaxRetries: 1,
	}
}
