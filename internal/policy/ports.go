package policy

import (
	"fmt"
	"regexp"
	"strconv"
)

// Port-binding syntaxes recognized across common dev-server and docker
// invocations. Only the bound (left-hand) value counts: in "-p 9999:80"
// the production check applies to 9999, not 80.
var (
	portAssignRe  = regexp.MustCompile(`(?i)\bport\s*=\s*(\d{1,5})`)
	portFlagRe    = regexp.MustCompile(`--port[=\s]+(\d{1,5})`)
	portPublishRe = regexp.MustCompile(`-p\s+(\d{1,5}):`)
)

func (e *Engine) checkPortBind(command string) Verdict {
	for _, re := range []*regexp.Regexp{portAssignRe, portFlagRe, portPublishRe} {
		for _, m := range re.FindAllStringSubmatch(command, -1) {
			port, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if e.ports[port] {
				return block(
					fmt.Sprintf("binding to production port %d", port),
					"use a development port such as 3000 or 8080 instead",
				)
			}
		}
	}
	return allow()
}
