// Package config loads the optional TOML configuration for mdbconv and fills in defaults.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Comment-miss policies.
const (
	MissPrompt      = "prompt"
	MissPlaceholder = "placeholder"
)

// UI modes.
const (
	UIAuto = "auto"
	UIOn   = "on"
	UIOff  = "off"
)

// Config is the full tool configuration.
type Config struct {
	Source  SourceConfig  `toml:"source"`
	Rewrite RewriteConfig `toml:"rewrite"`
	Output  OutputConfig  `toml:"output"`
	Tables  TablesConfig  `toml:"tables"`
	UI      UIConfig      `toml:"ui"`
	Update  UpdateConfig  `toml:"update"`
}

// SourceConfig describes the shape of the logging calls in the target files.
type SourceConfig struct {
	Severities      []string `toml:"severities"`
	CommentPrefixes []string `toml:"comment_prefixes"`
}

// RewriteConfig describes the replacement statement.
type RewriteConfig struct {
	Variable    string `toml:"variable"`
	Declaration string `toml:"declaration"`
	Constructor string `toml:"constructor"`
	ArgMethod   string `toml:"arg_method"`
	CommentMiss string `toml:"comment_miss"`
}

type OutputConfig struct {
	Dir       string `toml:"dir"` // empty: "output" next to each target file
	Extension string `toml:"extension"`
}

type TablesConfig struct {
	Jobs int `toml:"jobs"`
}

type UIConfig struct {
	Mode      string `toml:"mode"`
	QueueSize int    `toml:"queue_size"`
}

type UpdateConfig struct {
	Owner      string `toml:"owner"`
	Repository string `toml:"repository"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Severities:      []string{"qCritical", "qInfo", "qWarning"},
			CommentPrefixes: []string{"//"},
		},
		Rewrite: RewriteConfig{
			Variable:    "mdb_message",
			Declaration: "static QString mdb_message;",
			Constructor: "QString",
			ArgMethod:   "arg",
			CommentMiss: MissPrompt,
		},
		Output: OutputConfig{
			Extension: ".out",
		},
		UI: UIConfig{
			Mode:      UIAuto,
			QueueSize: 256,
		},
	}
}

// Load reads path over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// Validate checks the settings the migration depends on.
func (c Config) Validate() error {
	var errs []error
	if len(c.Source.Severities) == 0 {
		errs = append(errs, errors.New("source.severities must not be empty"))
	}
	for _, s := range c.Source.Severities {
		if !identRe.MatchString(s) {
			errs = append(errs, fmt.Errorf("source.severities: %q is not an identifier", s))
		}
	}
	if len(c.Source.CommentPrefixes) == 0 {
		errs = append(errs, errors.New("source.comment_prefixes must not be empty"))
	}
	for _, p := range c.Source.CommentPrefixes {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("source.comment_prefixes: blank prefix"))
		}
	}
	for name, v := range map[string]string{
		"rewrite.variable":    c.Rewrite.Variable,
		"rewrite.constructor": c.Rewrite.Constructor,
		"rewrite.arg_method":  c.Rewrite.ArgMethod,
	} {
		if !identRe.MatchString(v) {
			errs = append(errs, fmt.Errorf("%s: %q is not an identifier", name, v))
		}
	}
	switch c.Rewrite.CommentMiss {
	case MissPrompt, MissPlaceholder:
	default:
		errs = append(errs, fmt.Errorf("rewrite.comment_miss: invalid value %q (expected %s|%s)", c.Rewrite.CommentMiss, MissPrompt, MissPlaceholder))
	}
	if _, err := ReadUIMode(c.UI.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.UI.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("ui.queue_size must be at least 1, got %d", c.UI.QueueSize))
	}
	if c.Tables.Jobs < 0 {
		errs = append(errs, fmt.Errorf("tables.jobs must not be negative, got %d", c.Tables.Jobs))
	}
	return errors.Join(errs...)
}

// ReadUIMode normalises a --ui / ui.mode value.
func ReadUIMode(value string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", UIAuto:
		return UIAuto, nil
	case UIOn:
		return UIOn, nil
	case UIOff:
		return UIOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}
