package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdbconv/internal/config"
	"mdbconv/internal/model"
	"mdbconv/internal/protocol"
)

func testTables() model.CodeTables {
	return model.CodeTables{
		model.SubsystemASM:   {"ERR001": `"Bad thing"`, "SHARED": `"asm shared"`},
		model.SubsystemShell: {"SHARED": `"shell shared"`, "S1": `"shell only"`},
		model.SubsystemUI:    {"U1": `"ui"`},
	}
}

var line2 = model.LineRef{Source: 2, Original: 2, Edited: 2}

func TestResolveFromComment(t *testing.T) {
	r := NewResolver(testTables(), model.Bindings{{Variable: "log", Subsystem: model.SubsystemASM}}, config.MissPrompt)

	res := r.Resolve("ERR001", line2, `log.error("ERR001");`, "// log ERR001")
	require.Nil(t, res.Pending())
	m, ok := res.Match()
	require.True(t, ok)
	assert.Equal(t, `"Bad thing"`, m.Template)
	assert.Equal(t, model.SubsystemASM, m.Subsystem)
	assert.Equal(t, FromComment, m.Origin)

	notes := res.TakeNotes()
	require.Len(t, notes, 2)
	assert.Equal(t, protocol.LevelTrace, notes[0].Level)
	assert.Equal(t, `Got "Bad thing" for ERR001 code in log`, notes[1].Text)
	assert.Empty(t, res.TakeNotes())
}

func TestResolveTieBreakIsBindingOrder(t *testing.T) {
	bindings := model.Bindings{
		{Variable: "asmLog", Subsystem: model.SubsystemASM},
		{Variable: "shellLog", Subsystem: model.SubsystemShell},
	}
	r := NewResolver(testTables(), bindings, config.MissPrompt)
	for i := 0; i < 20; i++ {
		m, ok := r.Resolve("SHARED", line2, "", "// shellLog asmLog SHARED").Match()
		require.True(t, ok)
		assert.Equal(t, model.SubsystemASM, m.Subsystem)
	}
}

func TestResolveSkipsBindingWithoutToken(t *testing.T) {
	bindings := model.Bindings{
		{Variable: "asmLog", Subsystem: model.SubsystemASM},
		{Variable: "shellLog", Subsystem: model.SubsystemShell},
	}
	res := NewResolver(testTables(), bindings, config.MissPrompt).Resolve("S1", line2, "", "// asmLog shellLog S1")
	m, ok := res.Match()
	require.True(t, ok)
	assert.Equal(t, model.SubsystemShell, m.Subsystem)

	notes := res.TakeNotes()
	assert.Contains(t, notes, Note{Level: protocol.LevelError, Text: "No error code for S1 in asmLog"})
}

func TestResolveUntrustedCommentPrompts(t *testing.T) {
	r := NewResolver(testTables(), model.Bindings{{Variable: "log", Subsystem: model.SubsystemASM}}, config.MissPrompt)
	res := r.Resolve("ERR001", line2, `qCritical("ERR001");`, "// log")

	q := res.Pending()
	require.NotNil(t, q)
	assert.Equal(t, []model.Subsystem{model.SubsystemASM}, q.Choices)
	_, ok := res.Match()
	assert.False(t, ok)
}

func TestResolveMenuAnswers(t *testing.T) {
	r := NewResolver(testTables(), nil, config.MissPrompt)
	res := r.Resolve("S1", line2, `qInfo("S1");`, "")

	q := res.Pending()
	require.NotNil(t, q)
	assert.Equal(t, []model.Subsystem{model.SubsystemASM, model.SubsystemShell, model.SubsystemUI}, q.Choices)
	assert.Contains(t, q.Text(), "select mdb file")

	assert.ErrorIs(t, res.Answer("abc"), model.ErrInvalidChoice)
	assert.ErrorIs(t, res.Answer("4"), model.ErrInvalidChoice)
	assert.ErrorIs(t, res.Answer("1"), ErrTokenMissing)
	assert.Same(t, q, res.Pending())

	require.NoError(t, res.Answer("2"))
	assert.Nil(t, res.Pending())
	m, ok := res.Match()
	require.True(t, ok)
	assert.Equal(t, FromOperator, m.Origin)
	assert.Equal(t, `"shell only"`, m.Template)
	assert.Error(t, res.Answer("2"))
}

func TestResolveMissPolicy(t *testing.T) {
	bindings := model.Bindings{{Variable: "log", Subsystem: model.SubsystemASM}}

	prompt := NewResolver(testTables(), bindings, config.MissPrompt).Resolve("U1", line2, "", "// log U1")
	assert.NotNil(t, prompt.Pending())

	placeholder := NewResolver(testTables(), bindings, config.MissPlaceholder).Resolve("U1", line2, "", "// log U1")
	require.Nil(t, placeholder.Pending())
	m, ok := placeholder.Match()
	require.True(t, ok)
	assert.Equal(t, FromPlaceholder, m.Origin)
	assert.Empty(t, m.Template)
}

func TestCandidatesIgnoreUnloadedBindings(t *testing.T) {
	bindings := model.Bindings{
		{Variable: "", Subsystem: model.SubsystemASM},
		{Variable: "ioLog", Subsystem: model.SubsystemIO},
		{Variable: "ui", Subsystem: model.SubsystemUI},
	}
	r := NewResolver(testTables(), bindings, config.MissPrompt)
	assert.Equal(t, []model.Subsystem{model.SubsystemUI}, r.Candidates())
}
