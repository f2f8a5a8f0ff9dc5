package migrate

import "strings"

// CommentBlock returns the run of comment lines around line target (1-based).
//
// Up to target, a comment extends the run and any other line resets it, except
// that target itself keeps a non-empty run. After target, comments keep extending
// the run until the first non-comment line.
func CommentBlock(lines []string, target int, isComment func(string) bool) string {
	var run []string
	for i, line := range lines {
		num := i + 1
		comment := isComment(line)
		if num <= target {
			switch {
			case comment:
				run = append(run, line)
			case num == target && len(run) > 0:
			default:
				run = run[:0]
			}
			continue
		}
		if !comment {
			break
		}
		run = append(run, line)
	}
	return strings.Join(run, "\n")
}

// TrustedBlock returns block only if it mentions token.
func TrustedBlock(block, token string) string {
	if token == "" || !strings.Contains(block, token) {
		return ""
	}
	return block
}
