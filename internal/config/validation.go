package config

import (
	"fmt"
	"net"
)

// validate checks the configuration for values that would break the
// server at runtime.
func (c *Config) validate() error {
	if c.Settings != nil {
		if err := c.Settings.validate(); err != nil {
			return err
		}
	}
	for name, agent := range c.Agents {
		if err := ValidateAgent(name, agent); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) validate() error {
	if s.HTTPAddr != "" {
		if _, _, err := net.SplitHostPort(s.HTTPAddr); err != nil {
			return fmt.Errorf("httpAddr %q is not a host:port address", s.HTTPAddr)
		}
	}
	if s.TopTasks < 0 {
		return fmt.Errorf("topTasks must not be negative, got %d", s.TopTasks)
	}
	if s.ContextLimit < 0 {
		return fmt.Errorf("contextLimit must not be negative, got %d", s.ContextLimit)
	}
	if s.RecentLimit < 0 {
		return fmt.Errorf("recentLimit must not be negative, got %d", s.RecentLimit)
	}
	if s.SearchLimit < 0 {
		return fmt.Errorf("searchLimit must not be negative, got %d", s.SearchLimit)
	}
	return nil
}

// ValidateAgent checks a single agent registration entry.
func ValidateAgent(name string, agent *AgentConfig) error {
	if name == "" {
		return fmt.Errorf("agent name cannot be empty")
	}
	if agent == nil {
		return fmt.Errorf("agent %q has no configuration", name)
	}
	if agent.ConfigPath == "" {
		return fmt.Errorf("agent %q is missing configPath", name)
	}
	return nil
}
