// Package installer wires the prodguard hook into a host agent's
// settings file and removes it again. It only rewrites the hooks
// section; the engine itself never touches this file.
package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// hookMatcher covers every tool kind the engine can decide on.
const hookMatcher = "Write|Edit|Bash"

// DefaultSettingsPath returns the host agent settings file the hook is
// installed into.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claude/settings.json"
	}
	return filepath.Join(home, ".claude", "settings.json")
}

// HookCommand builds the shell command the host agent will run for each
// intercepted tool call.
func HookCommand(binary, configPath string) string {
	cmd := quoteArg(binary) + " hook"
	if configPath != "" {
		cmd += " --config " + quoteArg(configPath)
	}
	return cmd
}

// Install adds the PreToolUse hook to the settings file, creating the
// file if needed. Installing twice is a no-op.
func Install(settingsPath, command string) error {
	settings, err := readSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}

	pre, _ := hooks["PreToolUse"].([]any)
	for _, entry := range pre {
		if entryCommand(entry) == command {
			return nil
		}
	}

	pre = append(pre, map[string]any{
		"matcher": hookMatcher,
		"hooks": []any{
			map[string]any{"type": "command", "command": command},
		},
	})
	hooks["PreToolUse"] = pre

	return writeSettings(settingsPath, settings)
}

// Uninstall removes every prodguard hook entry from the settings file.
// A missing file is not an error.
func Uninstall(settingsPath string) error {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return nil
	}

	settings, err := readSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		return nil
	}
	pre, _ := hooks["PreToolUse"].([]any)
	if pre == nil {
		return nil
	}

	var kept []any
	for _, entry := range pre {
		if strings.Contains(entryCommand(entry), "prodguard") {
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) == len(pre) {
		return nil
	}

	if len(kept) == 0 {
		delete(hooks, "PreToolUse")
	} else {
		hooks["PreToolUse"] = kept
	}
	return writeSettings(settingsPath, settings)
}

// entryCommand digs the command string out of one PreToolUse entry.
func entryCommand(entry any) string {
	m, _ := entry.(map[string]any)
	inner, _ := m["hooks"].([]any)
	for _, h := range inner {
		hm, _ := h.(map[string]any)
		if cmd, _ := hm["command"].(string); cmd != "" {
			return cmd
		}
	}
	return ""
}

func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided settings path - intentional
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid JSON in settings file: %w", err)
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // settings are not secret
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// quoteArg single-quotes an argument when it contains shell
// metacharacters.
func quoteArg(s string) string {
	if !strings.ContainsAny(s, " \t\n\"'\\$`!*?[](){}<>|&;#") && s != "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
