// Package hook implements the host-agent interception protocol: one
// JSON tool call read from stdin, a verdict reported through the exit
// status and diagnostic text on stderr.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/prodguard/prodguard/internal/config"
	"github.com/prodguard/prodguard/internal/policy"
)

// OverrideEnv is the global bypass flag. When set to an affirmative
// value every evaluation short-circuits to allow with no output. It is
// an explicit human confirmation, not a configuration option.
const OverrideEnv = "PRODGUARD_OVERRIDE"

// Exit statuses understood by the host agent. Anything nonzero other
// than ExitBlock is never produced.
const (
	ExitAllow = 0
	ExitBlock = 2
)

// Options carries the explicit inputs of one hook run. Environment
// state is threaded in by the caller so Run stays a pure function of
// its arguments.
type Options struct {
	Stdin      io.Reader
	Stderr     io.Writer
	ConfigPath string
	Override   string // raw value of OverrideEnv
	Log        *logrus.Logger
}

// Affirmative reports whether an override value enables the bypass.
func Affirmative(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Run performs one evaluation and returns the process exit code.
//
// Every failure mode short of a policy violation resolves to allow:
// unreadable input, unknown tools, and missing or broken configuration
// must never block an agent's legitimate work.
func Run(opts Options) int {
	if Affirmative(opts.Override) {
		return ExitAllow
	}

	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(opts.Stderr)
	}

	var call policy.ToolCall
	if err := json.NewDecoder(opts.Stdin).Decode(&call); err != nil {
		log.Warnf("unreadable tool call, allowing: %v", err)
		return ExitAllow
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		log.Warnf("config %s unusable, allowing: %v", opts.ConfigPath, err)
		return ExitAllow
	}
	if cfg == nil {
		log.Warnf("no config found at %s, allowing", opts.ConfigPath)
		return ExitAllow
	}

	verdict := policy.New(cfg).Evaluate(call)
	if !verdict.Blocked() {
		return ExitAllow
	}

	fmt.Fprintf(opts.Stderr, "BLOCKED: %s\n", verdict.Reason)
	if verdict.Suggestion != "" {
		fmt.Fprintf(opts.Stderr, "Suggestion: %s\n", verdict.Suggestion)
	}
	fmt.Fprintf(opts.Stderr, "Override: %s=true <command>\n", OverrideEnv)
	return ExitBlock
}
