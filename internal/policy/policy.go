// Package policy implements the production-resource decision engine.
//
// One Engine is built per configuration snapshot; all regexps derived
// from the configuration are compiled once at construction. Evaluate is
// a pure function of the tool call: it holds no state between calls and
// is safe for concurrent use.
package policy

import (
	"os"
	"regexp"
	"strings"

	"github.com/prodguard/prodguard/internal/config"
)

// Decision is the outcome of one evaluation.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionBlock Decision = "block"
)

// Verdict is the engine's answer for one tool call. Reason and
// Suggestion are set only on block.
type Verdict struct {
	Decision   Decision
	Reason     string
	Suggestion string
}

// Blocked reports whether the verdict blocks the tool call.
func (v Verdict) Blocked() bool {
	return v.Decision == DecisionBlock
}

func allow() Verdict {
	return Verdict{Decision: DecisionAllow}
}

func block(reason, suggestion string) Verdict {
	return Verdict{Decision: DecisionBlock, Reason: reason, Suggestion: suggestion}
}

// Tool names the engine understands. Anything else is allowed.
const (
	ToolWrite = "Write"
	ToolEdit  = "Edit"
	ToolBash  = "Bash"
)

// ToolInput carries the fields of a tool call the engine inspects.
// Extra fields from the host are ignored.
type ToolInput struct {
	FilePath string `json:"file_path"`
	Command  string `json:"command"`
}

// ToolCall is one intercepted tool invocation from the host agent.
type ToolCall struct {
	Name  string    `json:"tool_name"`
	Input ToolInput `json:"tool_input"`
}

// containerMatcher holds the precompiled word-boundary pattern for one
// production container name. The pattern captures an optional "-dev"
// suffix so the dev exemption can be applied per occurrence.
type containerMatcher struct {
	name string
	re   *regexp.Regexp
}

// Engine evaluates tool calls against one immutable configuration.
type Engine struct {
	cfg        *config.Config
	workDir    string
	keywordRe  *regexp.Regexp
	containers []containerMatcher
	ports      map[int]bool
}

// New builds an engine for the given configuration, compiling all
// config-derived matchers once. A nil config behaves like an empty one.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "/"
	}

	e := &Engine{
		cfg:     cfg,
		workDir: workDir,
		ports:   make(map[int]bool, len(cfg.Ports)),
	}

	for _, port := range cfg.Ports {
		e.ports[port] = true
	}

	if len(cfg.ProcessKeywords) > 0 {
		escaped := make([]string, 0, len(cfg.ProcessKeywords))
		for _, kw := range cfg.ProcessKeywords {
			escaped = append(escaped, regexp.QuoteMeta(kw))
		}
		e.keywordRe = regexp.MustCompile(`(?i)` + strings.Join(escaped, "|"))
	}

	for _, name := range cfg.Containers {
		e.containers = append(e.containers, containerMatcher{
			name: name,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `(-dev)?\b`),
		})
	}

	return e
}

// Evaluate decides whether one tool call may proceed. Unknown tools and
// tool calls missing the relevant input field are allowed: the engine
// never treats input it cannot interpret as dangerous.
func (e *Engine) Evaluate(call ToolCall) Verdict {
	switch call.Name {
	case ToolWrite, ToolEdit:
		if call.Input.FilePath == "" {
			return allow()
		}
		return e.checkFileWrite(call.Input.FilePath)
	case ToolBash:
		if call.Input.Command == "" {
			return allow()
		}
		return e.checkCommand(call.Input.Command)
	default:
		return allow()
	}
}

// checkCommand runs the heuristic matcher bank over a shell command.
// The order is fixed and first match wins: a command matching several
// heuristics surfaces only the first one's reason.
func (e *Engine) checkCommand(command string) Verdict {
	checks := []func(string) Verdict{
		e.checkServiceControl,
		e.checkContainerMutation,
		e.checkProcessKill,
		e.checkIndirectKill,
		e.checkPortBind,
		e.checkFileOp,
	}

	for _, check := range checks {
		if v := check(command); v.Blocked() {
			return v
		}
	}
	return allow()
}
