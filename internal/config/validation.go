package config

import (
	"fmt"

	"github.com/Cyclone1070/agentkit/internal/logging"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Agent validation
	switch c.Agent.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		errs = append(errs, fmt.Sprintf("agent.provider must be %q or %q", ProviderAnthropic, ProviderGemini))
	}
	if c.Agent.MaxTokens < 1 {
		errs = append(errs, "agent.max_tokens must be >= 1")
	}
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, "agent.max_iterations must be >= 1")
	}
	if c.Agent.TimeoutMs < 1 {
		errs = append(errs, "agent.timeout_ms must be >= 1")
	}

	// Tool host validation
	if c.ToolHost.Name == "" {
		errs = append(errs, "toolhost.name must not be empty")
	}
	if c.ToolHost.Version == "" {
		errs = append(errs, "toolhost.version must not be empty")
	}

	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, "log.level must be one of debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
