package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"
	"golang.org/x/term"

	"mdbconv/internal/config"
	"mdbconv/internal/console"
	"mdbconv/internal/logging"
	"mdbconv/internal/mdb"
	"mdbconv/internal/migrate"
	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
	"mdbconv/internal/tui"
)

type runOutcome struct {
	results []migrate.FileResult
	err     error
}

func checkUpdate(cfg config.UpdateConfig, currentVer string) {
	if cfg.Owner == "" || cfg.Repository == "" {
		fmt.Println("No update source configured (set owner and repository under [update]).")
		return
	}
	githubTag := &latest.GithubTag{
		Owner:      cfg.Owner,
		Repository: cfg.Repository,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Update check failed: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Printf("\n%s A new version is available: %s (you have %s)\n", model.IconPrompt, res.Current, currentVer)
		fmt.Printf("Download it from https://github.com/%s/%s/releases\n", cfg.Owner, cfg.Repository)
	} else {
		fmt.Printf("%s You are using the latest version: %s\n", model.IconDone, currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mdbconv [options] [source files...]\n\n")
		fmt.Fprintf(os.Stderr, "mdbconv rewrites free-text log calls into mdb message codes.\n")
		fmt.Fprintf(os.Stderr, "Each call's code is looked up in the per-subsystem .mdb tables, using nearby\n")
		fmt.Fprintf(os.Stderr, "comments to pick the table or asking you when they do not settle it.\n\n")
		fmt.Fprintf(os.Stderr, "Table files are named after their subsystem:\n ")
		for _, sub := range model.AllSubsystems() {
			fmt.Fprintf(os.Stderr, " %s.mdb", sub)
		}
		fmt.Fprintf(os.Stderr, "\n\nOptions:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  mdbconv -M 'mdb/*.mdb' -C src/job.cpp        # Interactive migration\n")
		fmt.Fprintf(os.Stderr, "  mdbconv -M 'mdb/*.mdb' 'src/**/*.cpp' --ui off # Answer prompts line by line\n")
		fmt.Fprintf(os.Stderr, "  mdbconv -M 'mdb/*.mdb' --dump-tables          # Print the code tables as JSON\n")
		fmt.Fprintf(os.Stderr, "  mdbconv -M mdb/fcpasm.mdb -C a.cpp -r -o r.txt # Save a run summary\n")
	}

	mdbFlag := pflag.StringSliceP("mdb", "M", nil, "Code-table files (.mdb); globs allowed, repeatable")
	cppFlag := pflag.StringSliceP("cpp", "C", nil, "Source files to migrate; globs allowed, repeatable")
	configFlag := pflag.StringP("config", "c", "", "TOML configuration file")
	uiFlag := pflag.String("ui", "", "Presentation: auto, on (full screen) or off (plain lines)")
	logFileFlag := pflag.String("log-file", "", "Write diagnostics as JSON lines to this file")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Show trace messages and debug diagnostics")
	dumpFlag := pflag.Bool("dump-tables", false, "Print the loaded code tables as JSON and exit")
	reportFlag := pflag.BoolP("report", "r", false, "Print a per-file summary after the run")
	outputFlag := pflag.StringP("output", "o", "", "Save the summary to the specified file (combined with --report)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check the configured repository for a newer release")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("mdbconv version %s\n", model.Version)
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fail(err)
	}

	if *updateFlag {
		checkUpdate(cfg.Update, model.Version)
		return
	}

	tables, err := config.ExpandPaths(*mdbFlag)
	if err != nil {
		fail(err)
	}

	if *dumpFlag {
		runDumpMode(cfg, tables)
		return
	}

	targets, err := config.ExpandPaths(append(*cppFlag, pflag.Args()...))
	if err != nil {
		fail(err)
	}

	mode := cfg.UI.Mode
	if *uiFlag != "" {
		if mode, err = config.ReadUIMode(*uiFlag); err != nil {
			fail(err)
		}
	}

	logger, err := logging.New(*logFileFlag, *verboseFlag)
	if err != nil {
		fail(err)
	}
	logger.Info("starting", zap.String("version", model.Version), zap.Strings("tables", tables), zap.Strings("targets", targets))

	useTUI := mode == config.UIOn || (mode == config.UIAuto && isTerminal(os.Stdin) && isTerminal(os.Stdout))
	results, err := runMigration(cfg, logger, tables, targets, useTUI, *verboseFlag)
	_ = logger.Sync()
	if err != nil {
		fail(err)
	}

	if *reportFlag {
		runReportMode(results, *outputFlag)
	}
}

// runMigration runs the worker in the background and a presentation layer in
// the foreground until both are finished.
func runMigration(cfg config.Config, logger *zap.Logger, tables, targets []string, useTUI, verbose bool) ([]migrate.FileResult, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipe := protocol.NewPipe(cfg.UI.QueueSize)
	port := pipe.Port(ctx)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		defer port.Close()
		results, err := migrate.NewRunner(cfg, port, logger).Run(ctx, tables, targets)
		outcomeCh <- runOutcome{results: results, err: err}
	}()

	var uiErr error
	if useTUI {
		uiErr = tui.Run(pipe)
	} else {
		presenter := console.New(os.Stdin, os.Stdout)
		presenter.Verbose = verbose
		uiErr = presenter.Run(pipe.Events(), pipe.Submit)
	}

	// Unblocks the worker if the operator left before the last file.
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	if errors.Is(outcome.err, context.Canceled) {
		return outcome.results, errors.New("migration interrupted before the last file was written")
	}
	return outcome.results, outcome.err
}

func runDumpMode(cfg config.Config, paths []string) {
	tables, err := mdb.NewParser(cfg.Tables.Jobs).LoadAll(context.Background(), paths, nil)
	if err != nil {
		fail(err)
	}

	byName := make(map[string]model.CodeTable, len(tables))
	for s, table := range tables {
		byName[s.String()] = table
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(byName); err != nil {
		fail(err)
	}
}

func runReportMode(results []migrate.FileResult, outputFile string) {
	report := migrate.Report(results)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(report)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
