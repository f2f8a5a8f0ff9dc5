package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mdbconv/internal/config"
	"mdbconv/internal/migrate"
	"mdbconv/internal/protocol"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	goleak.VerifyTestMain(m)
}

type outcome struct {
	results []migrate.FileResult
	err     error
}

func runWithInput(t *testing.T, input string, tables, targets []string) (*Presenter, string, outcome, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipe := protocol.NewPipe(8)
	port := pipe.Port(ctx)
	done := make(chan outcome, 1)
	go func() {
		defer port.Close()
		results, err := migrate.NewRunner(config.Default(), port, nil).Run(ctx, tables, targets)
		done <- outcome{results, err}
	}()

	var out bytes.Buffer
	p := New(strings.NewReader(input), &out)
	err := p.Run(pipe.Events(), pipe.Submit)
	if err != nil {
		cancel()
	}
	return p, out.String(), <-done, err
}

func fixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	table := filepath.Join(dir, "fcpasm.mdb")
	src := filepath.Join(dir, "a.cpp")
	require.NoError(t, os.WriteFile(table, []byte("E1 \"first %1\"\nE2 \"second\"\n"), 0644))
	require.NoError(t, os.WriteFile(src, []byte("void f() {\n    // log E1\n    qCritical(\"E1\") << x;\n    qInfo(\"E2\");\n}\n"), 0644))
	return table, src
}

func TestConsoleDrivesMigration(t *testing.T) {
	table, src := fixture(t)

	p, out, res, err := runWithInput(t, "log\nnope\n1\nx\n1\n", []string{table}, []string{src})
	require.NoError(t, err)
	require.NoError(t, res.err)

	want := []string{
		"static QString mdb_message;",
		"void f() {",
		"    // log E1",
		"    mdb_message = QString(\"first %1\").arg(x); qCritical() << mdb_message;",
		"    mdb_message = QString(\"second\"); qInfo() << mdb_message;",
		"}",
	}
	assert.Equal(t, want, p.Lines())

	assert.Contains(t, out, "Loading file "+table)
	assert.Contains(t, out, "Wrong input")
	assert.Contains(t, out, "wrong input! try again")
	assert.Contains(t, out, "@    5     qInfo(\"E2\");")
	assert.Contains(t, out, "+    1 static QString mdb_message;")
	assert.Contains(t, out, "All files processed.")
	assert.NotContains(t, out, "found comments", "trace logs are hidden")

	data, err := os.ReadFile(filepath.Join(filepath.Dir(src), "output", "a.out"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(want, "\n")+"\n", string(data))
}

func TestConsoleInputClosed(t *testing.T) {
	table, src := fixture(t)

	_, _, res, err := runWithInput(t, "log\n", []string{table}, []string{src})
	assert.ErrorIs(t, err, ErrInputClosed)
	assert.ErrorIs(t, res.err, protocol.ErrClosed)
}

func TestVerboseShowsTrace(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	events := make(chan protocol.Event, 2)
	events <- protocol.Log("detail", protocol.LevelTrace)
	close(events)

	require.NoError(t, p.Run(events, func(string) bool { return true }))
	assert.Empty(t, out.String())

	p.Verbose = true
	events = make(chan protocol.Event, 1)
	events <- protocol.Log("detail", protocol.LevelTrace)
	close(events)
	require.NoError(t, p.Run(events, func(string) bool { return true }))
	assert.Equal(t, "detail\n", out.String())
}
