package migrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"mdbconv/internal/config"
	"mdbconv/internal/mdb"
	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
)

// Runner is the worker: it loads the code tables and migrates target files one
// after another, talking to the operator only through its port.
type Runner struct {
	cfg  config.Config
	port *protocol.Port
	log  *zap.Logger

	parser     *mdb.Parser
	normalizer *Normalizer
	calls      *CallParser
	rewriter   Rewriter
	tables     model.CodeTables
}

func NewRunner(cfg config.Config, port *protocol.Port, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		port:       port,
		log:        logger,
		parser:     mdb.NewParser(cfg.Tables.Jobs),
		normalizer: NewNormalizer(cfg.Source.Severities, cfg.Source.CommentPrefixes),
		calls:      NewCallParser(cfg.Source.Severities),
		rewriter:   NewRewriter(cfg.Rewrite),
	}
}

// Run loads tablePaths and migrates targetPaths in order. Setup problems are
// returned as *ConfigError before any file is edited. ReadyToQuit is emitted once,
// after the last file.
func (r *Runner) Run(ctx context.Context, tablePaths, targetPaths []string) ([]FileResult, error) {
	if err := r.loadTables(ctx, tablePaths); err != nil {
		return nil, r.abort(err)
	}
	targets, err := r.prepare(targetPaths)
	if err != nil {
		return nil, r.abort(err)
	}

	results := make([]FileResult, 0, len(targets))
	for _, t := range targets {
		res, err := r.newFileSession(t).run()
		if err != nil {
			return results, r.abort(err)
		}
		results = append(results, res)
	}

	r.port.Emit(protocol.ReadyToQuit())
	return results, r.port.Err()
}

// abort reports err to the operator unless the port itself is what failed.
func (r *Runner) abort(err error) error {
	if !errors.Is(err, protocol.ErrClosed) {
		r.port.Log(protocol.LevelError, err.Error())
	}
	r.log.Error("migration stopped", zap.Error(err))
	return err
}

func (r *Runner) loadTables(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return &ConfigError{Op: "load code tables", Err: errors.New("no .mdb files given")}
	}
	for _, p := range paths {
		r.port.Log(protocol.LevelInfo, "Loading file "+p)
	}
	tables, err := r.parser.LoadAll(ctx, paths, func(l mdb.Loaded) {
		if l.Replaced {
			r.port.Log(protocol.LevelWarn, fmt.Sprintf("%s replaces an earlier table for %s", l.Path, l.Subsystem.Label()))
		}
		r.port.Log(protocol.LevelTrace, fmt.Sprintf("Loaded %d codes for %s", l.Entries, l.Subsystem.Label()))
		r.log.Info("code table loaded",
			zap.String("path", l.Path),
			zap.Stringer("subsystem", l.Subsystem),
			zap.Int("entries", l.Entries))
	})
	if err != nil {
		return &ConfigError{Op: "load code tables", Err: err}
	}
	r.tables = tables
	return nil
}

// prepare reads every target and creates every output directory up front.
func (r *Runner) prepare(paths []string) ([]target, error) {
	if len(paths) == 0 {
		return nil, &ConfigError{Op: "read targets", Err: errors.New("no source files given")}
	}
	written := make(map[string]string, len(paths))
	targets := make([]target, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, &ConfigError{Op: "read target", Path: p, Err: err}
		}
		out := OutputPath(r.cfg.Output, p)
		if other, dup := written[out]; dup {
			return nil, &ConfigError{Op: "plan output", Path: p, Err: fmt.Errorf("%s is also the output of %s", out, other)}
		}
		written[out] = p
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return nil, &ConfigError{Op: "create output directory", Path: filepath.Dir(out), Err: err}
		}
		text := string(data)
		targets = append(targets, target{
			path:            p,
			output:          out,
			source:          model.SplitLines(text),
			trailingNewline: strings.HasSuffix(text, "\n"),
		})
	}
	return targets, nil
}
