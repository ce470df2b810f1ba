package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner reports a single long-running step. On non-interactive output
// it stays silent until the step finishes.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
}

// NewSpinner returns a spinner writing to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{out: out, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins animating message. It is a no-op without a TTY.
func (sp *Spinner) Start(message string) {
	if !sp.caps.IsTTY || sp.s != nil {
		return
	}
	sp.s = spinner.New(spinner.CharSets[sp.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(sp.out))
	sp.s.Suffix = " " + message
	if sp.caps.SupportsColor {
		_ = sp.s.Color("cyan")
	}
	sp.s.Start()
}

// Stop halts the animation without printing a status line.
func (sp *Spinner) Stop() {
	if sp.s == nil {
		return
	}
	sp.s.Stop()
	sp.s = nil
}

// Success stops the spinner and prints message with a checkmark.
func (sp *Spinner) Success(message string) {
	sp.finish(sp.symbols.Checkmark, color.New(color.FgGreen, color.Bold), message)
}

// Fail stops the spinner and prints message with a failure mark.
func (sp *Spinner) Fail(message string) {
	sp.finish(sp.symbols.Failure, color.New(color.FgRed, color.Bold), message)
}

func (sp *Spinner) finish(symbol string, c *color.Color, message string) {
	sp.Stop()
	if !sp.caps.SupportsColor {
		fmt.Fprintf(sp.out, "%s %s\n", symbol, message)
		return
	}
	fmt.Fprintf(sp.out, "%s %s\n", c.Sprint(symbol), message)
}
