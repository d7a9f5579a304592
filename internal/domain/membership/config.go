package membership

import "time"

// Config holds membership domain configuration.
type Config struct {
	// CollaboratorTimeout bounds each directory lookup made by the domain.
	CollaboratorTimeout time.Duration

	// PlaceholderUsername substitutes for a username the directory
	// could not resolve.
	PlaceholderUsername string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CollaboratorTimeout: 5 * time.Second,
		PlaceholderUsername: "someone",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CollaboratorTimeout <= 0 {
		c.CollaboratorTimeout = 5 * time.Second
	}
	if c.PlaceholderUsername == "" {
		c.PlaceholderUsername = "someone"
	}
	return nil
}
