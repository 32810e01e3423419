package policy

import (
	"fmt"
	"regexp"
)

// Service-control commands reach every unit on the host, so there is no
// per-resource scope a configuration entry could carve out. These block
// even with an empty configuration; only the override flag bypasses them.
var (
	systemctlRe   = regexp.MustCompile(`\bsystemctl\s+(stop|restart|disable)\b`)
	nginxSignalRe = regexp.MustCompile(`\bnginx\s+-s\s+(stop|quit|reload)\b`)
)

func (e *Engine) checkServiceControl(command string) Verdict {
	if m := systemctlRe.FindStringSubmatch(command); m != nil {
		return block(
			fmt.Sprintf("systemctl %s affects system-wide services", m[1]),
			"inspect state with 'systemctl status' instead",
		)
	}
	if m := nginxSignalRe.FindStringSubmatch(command); m != nil {
		return block(
			fmt.Sprintf("nginx -s %s signals the running nginx master", m[1]),
			"validate the configuration with 'nginx -t' instead",
		)
	}
	return allow()
}
