package policy

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// broadKillNames are executable names too broad to kill safely no
// matter what the configuration says: they would take down every
// process of that runtime on the host.
var broadKillNames = map[string]bool{
	"node":   true,
	"python": true,
	"java":   true,
	"docker": true,
}

var (
	lsofKillRe  = regexp.MustCompile(`\blsof\b[^;&]*\|\s*xargs\s+kill\b`)
	fuserKillRe = regexp.MustCompile(`\bfuser\b[^;&|]*-k`)
	portRefRe   = regexp.MustCompile(`[:=](\d{1,5})\b`)
	portSpecRe  = regexp.MustCompile(`\b(\d{1,5})/(?:tcp|udp)\b`)
)

// checkProcessKill blocks pkill/killall invocations whose pattern could
// reach a production process. The pattern is the first non-flag token
// after the kill command within the same segment.
func (e *Engine) checkProcessKill(command string) Verdict {
	for _, seg := range splitSegments(command) {
		tokens := tokenize(seg)
		if len(tokens) == 0 {
			continue
		}

		name := filepath.Base(tokens[0])
		if name != "pkill" && name != "killall" {
			continue
		}

		var pattern string
		for _, tok := range tokens[1:] {
			if strings.HasPrefix(tok, "-") {
				continue
			}
			pattern = tok
			break
		}
		if pattern == "" {
			continue
		}

		if e.keywordRe != nil {
			if kw := e.keywordRe.FindString(pattern); kw != "" {
				return block(
					fmt.Sprintf("%s pattern %q matches production process keyword %q", name, pattern, kw),
					"find the exact PID with pgrep and confirm it is not a production process first",
				)
			}
		}

		if broadKillNames[pattern] {
			return block(
				fmt.Sprintf("%s %s would terminate every %s process on this host", name, pattern, pattern),
				"kill a specific PID or use a narrower pattern",
			)
		}
	}

	return allow()
}

// checkIndirectKill blocks kill-by-port constructions ("lsof | xargs
// kill", "fuser -k") that reference a production port as :port, =port,
// or the fuser port/tcp form.
func (e *Engine) checkIndirectKill(command string) Verdict {
	if !lsofKillRe.MatchString(command) && !fuserKillRe.MatchString(command) {
		return allow()
	}

	for _, re := range []*regexp.Regexp{portRefRe, portSpecRe} {
		for _, m := range re.FindAllStringSubmatch(command, -1) {
			port, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if e.ports[port] {
				return block(
					fmt.Sprintf("killing the process listening on production port %d", port),
					"check what is listening with 'lsof -i' first",
				)
			}
		}
	}

	return allow()
}
