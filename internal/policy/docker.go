package policy

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// dockerInvocationRe matches a docker invocation at command start or
	// right after a command separator, so "echo docker stop db" does not
	// activate the matcher.
	dockerInvocationRe = regexp.MustCompile(`(?:^|[;&|]\s*)docker\b`)

	// mutationSubcommandRe extracts the first container-mutating
	// subcommand. Read-only subcommands (ps, logs, inspect, exec) never
	// appear here and never block.
	mutationSubcommandRe = regexp.MustCompile(`\b(stop|restart|rm|kill|pause|unpause|down)\b`)

	composeRe = regexp.MustCompile(`\bdocker(?:\s+compose|-compose)\b`)
)

// checkContainerMutation blocks docker subcommands that would mutate a
// production container, and compose invocations pointed at a production
// directory.
//
// The "-dev" exemption is applied per occurrence: "docker stop db-dev"
// is allowed, while "docker stop db db-dev" still blocks on the bare
// production reference.
func (e *Engine) checkContainerMutation(command string) Verdict {
	if !dockerInvocationRe.MatchString(command) {
		return allow()
	}

	sub := mutationSubcommandRe.FindString(command)
	if sub == "" {
		return allow()
	}

	for _, c := range e.containers {
		for _, m := range c.re.FindAllStringSubmatch(command, -1) {
			if m[1] != "" {
				// Dev variant, a distinct and always-allowed name.
				continue
			}
			return block(
				fmt.Sprintf("docker %s targets production container %q", sub, c.name),
				fmt.Sprintf("inspect it read-only instead, e.g. 'docker logs %s' or 'docker ps'", c.name),
			)
		}
	}

	if composeRe.MatchString(command) {
		for _, dir := range e.cfg.Directories {
			if strings.Contains(command, dir) {
				return block(
					fmt.Sprintf("docker compose %s references production directory %s", sub, dir),
					"run compose from a development checkout instead",
				)
			}
		}
	}

	return allow()
}
