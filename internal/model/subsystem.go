package model

import "strings"

// Subsystem identifies one component of the target codebase that owns a code table.
type Subsystem int

const (
	SubsystemSE Subsystem = iota
	SubsystemASM
	SubsystemDP
	SubsystemDRC
	SubsystemEDIF
	SubsystemERP
	SubsystemGDSReader
	SubsystemIO
	SubsystemLMan
	SubsystemME
	SubsystemReports
	SubsystemSDB
	SubsystemShell
	SubsystemTDM
	SubsystemUI

	subsystemCount
)

// Tokens double as code-table file stems and menu text.
var subsystemTokens = [subsystemCount]string{
	SubsystemSE:        "fcpse",
	SubsystemASM:       "fcpasm",
	SubsystemDP:        "fcpdp",
	SubsystemDRC:       "fcpdrc",
	SubsystemEDIF:      "fcpedif",
	SubsystemERP:       "fcperp",
	SubsystemGDSReader: "fcpgdsreader",
	SubsystemIO:        "fcpio",
	SubsystemLMan:      "fcplman",
	SubsystemME:        "fcpme",
	SubsystemReports:   "fcpreports",
	SubsystemSDB:       "fcpsdb",
	SubsystemShell:     "fcpshell",
	SubsystemTDM:       "fcptdm",
	SubsystemUI:        "fcpui",
}

var subsystemByToken = func() map[string]Subsystem {
	m := make(map[string]Subsystem, subsystemCount)
	for i, tok := range subsystemTokens {
		m[tok] = Subsystem(i)
	}
	return m
}()

// ParseSubsystem maps a canonical token (e.g. "fcpasm") back to its Subsystem.
func ParseSubsystem(token string) (Subsystem, bool) {
	s, ok := subsystemByToken[token]
	return s, ok
}

// AllSubsystems returns every known subsystem in declaration order.
func AllSubsystems() []Subsystem {
	out := make([]Subsystem, subsystemCount)
	for i := range out {
		out[i] = Subsystem(i)
	}
	return out
}

// Valid reports whether s is one of the declared subsystems.
func (s Subsystem) Valid() bool {
	return s >= 0 && s < subsystemCount
}

// String returns the canonical lowercase token.
func (s Subsystem) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return subsystemTokens[s]
}

// Label is the short upper-case name shown in prompts ("ASM", "GDSREADER").
func (s Subsystem) Label() string {
	return strings.ToUpper(strings.TrimPrefix(s.String(), "fcp"))
}
