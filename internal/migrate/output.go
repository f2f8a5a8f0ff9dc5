package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mdbconv/internal/config"
)

// OutputPath returns where the rewritten copy of target goes:
// <dir>/<stem><ext>, with dir defaulting to "output" beside target.
func OutputPath(cfg config.OutputConfig, target string) string {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(target), "output")
	}
	stem := strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
	return filepath.Join(dir, stem+cfg.Extension)
}

func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
