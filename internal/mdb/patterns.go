package mdb

import "regexp"

var (
	tokenRe = regexp.MustCompile(`\w+`)

	// First double-quoted string, backslash escapes allowed inside.
	templateRe = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
)
