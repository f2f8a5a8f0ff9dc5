package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	assert.Contains(t, Report(nil), "No files were migrated.")

	out := Report([]FileResult{
		{Path: "a.cpp", Output: "output/a.out", Declaration: 1, Statements: 3, Rewritten: 2, PassedThrough: 1, Prompts: 1},
		{Path: "b.cpp", Output: "output/b.out", Declaration: 4, Statements: 1, Rewritten: 1},
	})
	assert.Contains(t, out, "a.cpp\n  Output:        output/a.out\n")
	assert.Contains(t, out, "  Declaration:   before line 4\n")
	assert.Contains(t, out, "Total: 2 files, 3 of 4 log calls rewritten, 1 left as is, 1 answered by the operator\n")
}
