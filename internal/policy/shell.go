package policy

import (
	"path/filepath"
	"strings"
)

// splitSegments splits a raw shell command into its individual command
// segments: pipes, logical operators, and semicolons separate segments,
// while quoted text and subshell contents stay intact. Nested
// "sh -c '...'" invocations are expanded so the inner command is
// inspected as well.
func splitSegments(command string) []string {
	var segments []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool
	var parenDepth int

	runes := []rune(command)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if c == '\'' && !inDoubleQuote {
			inSingleQuote = !inSingleQuote
			current.WriteRune(c)
			continue
		}
		if c == '"' && !inSingleQuote {
			inDoubleQuote = !inDoubleQuote
			current.WriteRune(c)
			continue
		}
		if inSingleQuote || inDoubleQuote {
			current.WriteRune(c)
			continue
		}

		if c == '(' {
			parenDepth++
			current.WriteRune(c)
			continue
		}
		if c == ')' {
			parenDepth--
			current.WriteRune(c)
			continue
		}
		if parenDepth > 0 {
			current.WriteRune(c)
			continue
		}

		switch c {
		case '|':
			if s := strings.TrimSpace(current.String()); s != "" {
				segments = append(segments, s)
			}
			current.Reset()
			if i+1 < len(runes) && runes[i+1] == '|' {
				i++
			}
		case '&':
			if i+1 < len(runes) && runes[i+1] == '&' {
				if s := strings.TrimSpace(current.String()); s != "" {
					segments = append(segments, s)
				}
				current.Reset()
				i++
			} else {
				// Background operator stays with its command.
				current.WriteRune(c)
			}
		case ';':
			if s := strings.TrimSpace(current.String()); s != "" {
				segments = append(segments, s)
			}
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		segments = append(segments, s)
	}

	var expanded []string
	for _, seg := range segments {
		expanded = append(expanded, expandShellInvocation(seg)...)
	}
	return expanded
}

// expandShellInvocation detects "sh -c 'cmd'" style segments and
// returns both the outer segment and the recursively split inner
// command, so a kill wrapped in a shell invocation is still seen.
func expandShellInvocation(segment string) []string {
	tokens := tokenize(segment)
	if len(tokens) < 3 {
		return []string{segment}
	}

	shell := filepath.Base(tokens[0])
	switch shell {
	case "sh", "bash", "zsh", "ksh", "dash", "fish":
	default:
		return []string{segment}
	}

	for i := 1; i < len(tokens)-1; i++ {
		flag := tokens[i]
		if strings.HasPrefix(flag, "-") && strings.Contains(flag, "c") {
			result := []string{segment}
			result = append(result, splitSegments(tokens[i+1])...)
			return result
		}
	}
	return []string{segment}
}

// tokenize splits a command segment into whitespace-separated tokens,
// respecting single and double quotes.
func tokenize(segment string) []string {
	var tokens []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool

	for _, c := range segment {
		switch {
		case c == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
		case c == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
		case (c == ' ' || c == '\t') && !inSingleQuote && !inDoubleQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(c)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
