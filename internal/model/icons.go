package model

// Markers shared by the full-screen and plain-line presenters.
const (
	IconSelected = "@" // Line the worker is asking about
	IconInserted = "+" // Line inserted by the migration
	IconReplaced = "~" // Line rewritten by the migration
	IconPrompt   = ">" // Input box is waiting for a submission
	IconDone     = "✓"
)

// Version of the mdbconv binary.
const Version = "0.3.0"
