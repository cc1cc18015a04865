// internal/notify/config.go
package notify

import "time"

type Config struct {
	AWSRegion    string
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	SenderID     string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion: "us-east-1",
		Timeout:   10 * time.Second,
	}
}
