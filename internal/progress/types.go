// Package progress shows a spinner on interactive terminals while
// changelogen reads repository history.
package progress

// TerminalCapabilities describes what the attached terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols is the symbol set used for status lines.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}
