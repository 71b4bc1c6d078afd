package config

import "time"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent    AgentConfig    `json:"agent"`
	ToolHost ToolHostConfig `json:"toolhost"`
	Log      LogConfig      `json:"log"`
}

type AgentConfig struct {
	Provider      string `json:"provider"`       // Default: "anthropic"
	Model         string `json:"model"`          // Default: "" (provider default)
	MaxTokens     int    `json:"max_tokens"`     // Default: 4096
	MaxIterations int    `json:"max_iterations"` // Default: 10
	TimeoutMs     int    `json:"timeout_ms"`     // Default: 300000 (5 minutes)
	System        string `json:"system"`         // Default: ""
	MetricsAddr   string `json:"metrics_addr"`   // Default: "" (disabled)
}

// Timeout returns TimeoutMs as a duration.
func (a AgentConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

type ToolHostConfig struct {
	Name        string `json:"name"`         // Default: "agentkit-toolhost"
	Version     string `json:"version"`      // Default: "0.1.0"
	MetricsAddr string `json:"metrics_addr"` // Default: "" (disabled)
}

type LogConfig struct {
	Level string `json:"level"` // Default: "" (LOG_LEVEL or info)
}

// Provider names accepted in agent.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Provider:      ProviderAnthropic,
			MaxTokens:     4096,
			MaxIterations: 10,
			TimeoutMs:     300_000,
		},
		ToolHost: ToolHostConfig{
			Name:    "agentkit-toolhost",
			Version: "0.1.0",
		},
	}
}
