package migrate

import (
	"fmt"
	"strings"
)

// Report summarises a run, one row per file, followed by totals.
func Report(results []FileResult) string {
	var b strings.Builder
	b.WriteString("=== mdbconv migration report ===\n\n")
	if len(results) == 0 {
		b.WriteString("No files were migrated.\n")
		return b.String()
	}

	var total FileResult
	for _, r := range results {
		fmt.Fprintf(&b, "%s\n", r.Path)
		fmt.Fprintf(&b, "  Output:        %s\n", r.Output)
		fmt.Fprintf(&b, "  Declaration:   before line %d\n", r.Declaration)
		fmt.Fprintf(&b, "  Log calls:     %d\n", r.Statements)
		fmt.Fprintf(&b, "  Rewritten:     %d\n", r.Rewritten)
		fmt.Fprintf(&b, "  Left as is:    %d\n", r.PassedThrough)
		fmt.Fprintf(&b, "  Asked:         %d\n\n", r.Prompts)

		total.Statements += r.Statements
		total.Rewritten += r.Rewritten
		total.PassedThrough += r.PassedThrough
		total.Prompts += r.Prompts
	}
	fmt.Fprintf(&b, "Total: %d files, %d of %d log calls rewritten, %d left as is, %d answered by the operator\n",
		len(results), total.Rewritten, total.Statements, total.PassedThrough, total.Prompts)
	return b.String()
}
