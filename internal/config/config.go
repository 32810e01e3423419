// Package config defines the production-resource configuration for prodguard.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config describes the production resources the engine protects.
// All lists are optional; an empty config blocks nothing except the
// unconditional system-service commands.
type Config struct {
	// Ports are production network ports. Binding a listener to one of
	// these, or killing whatever holds one, is blocked.
	Ports []int `json:"ports" yaml:"ports"`

	// Containers are production container names. Matching is exact;
	// "<name>-dev" is a distinct identifier that is always allowed.
	Containers []string `json:"containers" yaml:"containers"`

	// Directories are absolute path prefixes considered production,
	// checked in listed order. "~" and "$HOME" are expanded at load.
	Directories []string `json:"directories" yaml:"directories"`

	// SafeDirectories are prefixes that are always allowed, even when
	// nested under a production directory. Safe wins.
	SafeDirectories []string `json:"safe_directories" yaml:"safe_directories"`

	// ProcessKeywords are case-insensitive substrings identifying
	// production process names for pkill/killall matching.
	ProcessKeywords []string `json:"process_keywords" yaml:"process_keywords"`

	// ProtectedPatterns are doublestar glob patterns for paths whose
	// writes are blocked regardless of the directory lists.
	ProtectedPatterns []string `json:"protected_patterns" yaml:"protected_patterns"`
}

// rawConfig accepts loosely-typed lists so that a single malformed entry
// is skipped instead of failing the whole load.
type rawConfig struct {
	Ports             []any `json:"ports" yaml:"ports"`
	Containers        []any `json:"containers" yaml:"containers"`
	Directories       []any `json:"directories" yaml:"directories"`
	SafeDirectories   []any `json:"safe_directories" yaml:"safe_directories"`
	ProcessKeywords   []any `json:"process_keywords" yaml:"process_keywords"`
	ProtectedPatterns []any `json:"protected_patterns" yaml:"protected_patterns"`
}

// Default returns an empty configuration that protects nothing.
func Default() *Config {
	return &Config{}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".prodguard.yaml"
	}
	return filepath.Join(home, ".prodguard.yaml")
}

// Load loads configuration from a file path. The format is chosen by
// extension: .json/.jsonc are parsed as comment-tolerant JSON, anything
// else as YAML. A missing or empty file returns (nil, nil) so callers
// can fail open.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path - intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	return Parse(data, path)
}

// Parse parses config data. The path is used only to pick the format.
func Parse(data []byte, path string) (*Config, error) {
	var raw rawConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON in config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML in config file: %w", err)
		}
	}

	return raw.normalize(), nil
}

// normalize coerces raw entries into typed values, dropping anything
// malformed, and applies home expansion to directory entries.
func (r *rawConfig) normalize() *Config {
	cfg := &Config{}

	for _, v := range r.Ports {
		if port, ok := coercePort(v); ok {
			cfg.Ports = append(cfg.Ports, port)
		}
	}

	cfg.Containers = coerceStrings(r.Containers)
	cfg.ProcessKeywords = coerceStrings(r.ProcessKeywords)
	cfg.ProtectedPatterns = coerceStrings(r.ProtectedPatterns)

	for _, dir := range coerceStrings(r.Directories) {
		if expanded, ok := expandPath(dir); ok {
			cfg.Directories = append(cfg.Directories, expanded)
		}
	}
	for _, dir := range coerceStrings(r.SafeDirectories) {
		if expanded, ok := expandPath(dir); ok {
			cfg.SafeDirectories = append(cfg.SafeDirectories, expanded)
		}
	}

	return cfg
}

// coercePort accepts int, float and numeric string entries.
func coercePort(v any) (int, bool) {
	var port int
	switch n := v.(type) {
	case int:
		port = n
	case int64:
		port = int(n)
	case uint64:
		port = int(n)
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		port = int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		port = parsed
	default:
		return 0, false
	}

	if port < 1 || port > 65535 {
		return 0, false
	}
	return port, true
}

func coerceStrings(list []any) []string {
	var out []string
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// expandPath expands "~" and "$HOME" prefixes and rejects entries that
// are not absolute afterwards.
func expandPath(path string) (string, bool) {
	switch {
	case path == "~" || strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	case strings.HasPrefix(path, "$HOME"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "$HOME"))
	}

	if !filepath.IsAbs(path) {
		return "", false
	}
	return filepath.Clean(path), true
}
