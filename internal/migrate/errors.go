package migrate

import "fmt"

// ConfigError is a fatal setup problem: an unreadable input, an unknown table
// stem, an output location that cannot be created. The run stops before any
// file is edited.
type ConfigError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("configuration error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
