// Package mdb builds code tables from per-subsystem .mdb files.
package mdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"mdbconv/internal/model"
)

// minChunk keeps small tables from being split into many tiny jobs.
const minChunk = 64

// Parser extracts (token, template) pairs from code-table text.
type Parser struct {
	jobs int
}

// NewParser creates a Parser that works on up to jobs chunks of lines at once.
// jobs <= 0 means GOMAXPROCS.
func NewParser(jobs int) *Parser {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Parser{jobs: jobs}
}

// ParseLine extracts the first word token on line and the first quoted string
// after it. ok is false for lines without a token.
func ParseLine(line string) (token, template string, ok bool, err error) {
	loc := tokenRe.FindStringIndex(line)
	if loc == nil {
		return "", "", false, nil
	}
	token = line[loc[0]:loc[1]]
	template = templateRe.FindString(line[loc[1]:])
	if template == "" {
		return token, "", true, ErrMissingTemplate
	}
	return token, template, true, nil
}

type entry struct {
	template string
	line     int
}

// Parse builds a table from text. Lines are processed in parallel chunks that write
// into one shared table under a mutex; for duplicate tokens the last line wins.
func (p *Parser) Parse(ctx context.Context, text string) (model.CodeTable, error) {
	lines := model.SplitLines(text)

	var mu sync.Mutex
	entries := make(map[string]entry)

	chunk := (len(lines) + p.jobs - 1) / p.jobs
	if chunk < minChunk {
		chunk = minChunk
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs)
	for start := 0; start < len(lines); start += chunk {
		end := min(start+chunk, len(lines))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%minChunk == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				token, template, ok, err := ParseLine(lines[i])
				if err != nil {
					return &ParseError{Line: i + 1, Text: lines[i], Underlying: err}
				}
				if !ok {
					continue
				}
				mu.Lock()
				if prev, seen := entries[token]; !seen || prev.line < i {
					entries[token] = entry{template: template, line: i}
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := make(model.CodeTable, len(entries))
	for token, e := range entries {
		table[token] = e.template
	}
	return table, nil
}

// SubsystemForPath resolves the subsystem from the file stem ("mdb/fcpasm.mdb" -> ASM).
func SubsystemForPath(path string) (model.Subsystem, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, ok := model.ParseSubsystem(stem)
	if !ok {
		return 0, fmt.Errorf("%s: file stem %q: %w", path, stem, ErrUnknownSubsystem)
	}
	return s, nil
}

// LoadFile reads one code-table file.
func (p *Parser) LoadFile(ctx context.Context, path string) (model.Subsystem, model.CodeTable, error) {
	s, err := SubsystemForPath(path)
	if err != nil {
		return 0, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("read code table: %w", err)
	}
	table, err := p.Parse(ctx, string(data))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return 0, nil, err
	}
	return s, table, nil
}

// Loaded describes one table added by LoadAll.
type Loaded struct {
	Path      string
	Subsystem model.Subsystem
	Entries   int
	Replaced  bool // an earlier path already supplied this subsystem
}

// LoadAll reads every path in order. progress, if non-nil, is called after each
// table. A later file for the same subsystem replaces the earlier one.
func (p *Parser) LoadAll(ctx context.Context, paths []string, progress func(Loaded)) (model.CodeTables, error) {
	tables := make(model.CodeTables, len(paths))
	for _, path := range paths {
		s, table, err := p.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		_, replaced := tables[s]
		tables[s] = table
		if progress != nil {
			progress(Loaded{Path: path, Subsystem: s, Entries: len(table), Replaced: replaced})
		}
	}
	return tables, nil
}
