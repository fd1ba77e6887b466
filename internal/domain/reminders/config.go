package reminders

import (
	"time"

	"github.com/mintcall/relaybot/relaybot/config"
)

type Config struct {
	CheckInterval   time.Duration
	DueWindow       time.Duration
	CleanupInterval time.Duration
	// LeadTime is only used to show the user when they will be pinged.
	LeadTime time.Duration
}

func DefaultConfig() Config {
	return Config{
		CheckInterval:   config.DefaultCheckInterval,
		DueWindow:       config.DefaultDueWindow,
		CleanupInterval: config.DefaultCleanupInterval,
		LeadTime:        config.DefaultLeadTime,
	}
}

// withDefaults fills zero durations from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CheckInterval <= 0 {
		c.CheckInterval = d.CheckInterval
	}
	if c.DueWindow <= 0 {
		c.DueWindow = d.DueWindow
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.LeadTime <= 0 {
		c.LeadTime = d.LeadTime
	}
	return c
}
