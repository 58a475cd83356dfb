// internal/handlers/activities/config.go
package activities

import "time"

type Config struct {
	// EventTimeout bounds delivery of a roster event to all sinks.
	EventTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EventTimeout: 3 * time.Second,
	}
}
