// internal/agents/travel-data/amadeus/config.go
package amadeus

import "time"

type Config struct {
	BaseURL         string
	ClientID        string
	ClientSecret    string
	Timeout         time.Duration
	MaxRetries      int
	MaxFlightOffers int
	Adults          int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:         "https://test.api.amadeus.com",
		Timeout:         20 * time.Second,
		MaxRetries:      2,
		MaxFlightOffers: 5,
		Adults:          1,
	}
}
