// internal/wizard/config.go
package wizard

import "time"

type Config struct {
	DefaultOrigin    string
	HotelRadiusKM    int
	ActivityRadiusKM float64
	StepTimeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultOrigin:    "DTW",
		HotelRadiusKM:    10,
		ActivityRadiusKM: 5,
		StepTimeout:      90 * time.Second,
	}
}
