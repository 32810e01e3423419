package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// fileOpRe matches destructive file commands invoked with at least one
// flag argument; the trailing capture is everything after the flag.
var fileOpRe = regexp.MustCompile(`\b(rm|mv|cp|chmod|chown)\s+(-\S+)\s+(.*)`)

// checkFileOp blocks rm/mv/cp/chmod/chown invocations whose arguments
// reference a production directory. The directory test is a substring
// match over the argument tail, so globs and concatenated paths still hit.
func (e *Engine) checkFileOp(command string) Verdict {
	for _, m := range fileOpRe.FindAllStringSubmatch(command, -1) {
		for _, dir := range e.cfg.Directories {
			if strings.Contains(m[3], dir) {
				return block(
					fmt.Sprintf("%s targets production directory %s", m[1], dir),
					"operate on a copy outside the production tree instead",
				)
			}
		}
	}
	return allow()
}
