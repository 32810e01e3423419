// Package prodguard provides a public API for the production-resource
// policy engine.
package prodguard

import (
	"github.com/prodguard/prodguard/internal/config"
	"github.com/prodguard/prodguard/internal/policy"
)

// Config describes the production resources the engine protects.
type Config = config.Config

// ToolCall is one intercepted tool invocation from a host agent.
type ToolCall = policy.ToolCall

// ToolInput carries the inspected fields of a tool call.
type ToolInput = policy.ToolInput

// Verdict is the engine's allow/block answer for one tool call.
type Verdict = policy.Verdict

// Engine evaluates tool calls against one immutable configuration.
type Engine = policy.Engine

// New builds an engine for the given configuration, compiling all
// config-derived matchers once.
func New(cfg *Config) *Engine {
	return policy.New(cfg)
}

// DefaultConfig returns an empty configuration that protects nothing.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig loads configuration from a YAML or JSONC file. A missing
// file returns (nil, nil) so callers can fail open.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return config.DefaultConfigPath()
}
