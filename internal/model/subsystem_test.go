package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubsystemRoundTrip(t *testing.T) {
	for _, s := range AllSubsystems() {
		got, ok := ParseSubsystem(s.String())
		assert.True(t, ok, s.String())
		assert.Equal(t, s, got)
	}
	assert.Len(t, AllSubsystems(), 15)
}

func TestSubsystemNames(t *testing.T) {
	assert.Equal(t, "fcpasm", SubsystemASM.String())
	assert.Equal(t, "ASM", SubsystemASM.Label())
	assert.Equal(t, "GDSREADER", SubsystemGDSReader.Label())
	assert.Equal(t, "unknown", Subsystem(99).String())

	_, ok := ParseSubsystem("FcpAsm")
	assert.False(t, ok, "tokens are case-sensitive")
}

func TestCodeTablesOrder(t *testing.T) {
	ts := CodeTables{
		SubsystemUI:  {},
		SubsystemSE:  {},
		SubsystemASM: {"E1": `"x"`},
	}
	assert.Equal(t, []Subsystem{SubsystemSE, SubsystemASM, SubsystemUI}, ts.Subsystems())

	tmpl, ok := ts.Lookup(SubsystemASM, "E1")
	assert.True(t, ok)
	assert.Equal(t, `"x"`, tmpl)
	_, ok = ts.Lookup(SubsystemDRC, "E1")
	assert.False(t, ok)
}

func TestBindingsNamed(t *testing.T) {
	bs := Bindings{{Variable: "log", Subsystem: SubsystemASM}, {Variable: "", Subsystem: SubsystemDRC}}
	assert.Equal(t, Bindings{{Variable: "log", Subsystem: SubsystemASM}}, bs.Named())
}
