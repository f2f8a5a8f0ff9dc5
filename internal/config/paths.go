package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"mdbconv/internal/model"
)

// ExpandPaths resolves command-line file arguments. "~/" is expanded, patterns
// with glob characters (including "**") are matched and sorted, and plain
// paths must exist. Duplicates are dropped; order is kept.
func ExpandPaths(args []string) ([]string, error) {
	var (
		out  []string
		errs []error
		seen = make(map[string]bool)
	)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		p := model.ExpandTilde(arg)
		if strings.ContainsAny(p, "*?[{") {
			matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
			if err != nil {
				errs = append(errs, fmt.Errorf("bad pattern %q: %w", arg, err))
				continue
			}
			if len(matches) == 0 {
				errs = append(errs, fmt.Errorf("no files match %s", arg))
				continue
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
			continue
		}
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, fmt.Errorf("Path does not exist: %s", arg))
			continue
		}
		add(p)
	}
	return out, errors.Join(errs...)
}
