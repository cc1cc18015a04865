// internal/agents/ai-conversation/structured-parser/config.go
package structuredparser

import "time"

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o",
		Temperature: 0.3,
		Timeout:     60 * time.Second,
		MaxRetries:  2,
	}
}
