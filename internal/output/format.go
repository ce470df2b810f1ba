// Package output provides terminal output formatting utilities for the changelogen CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSeparator prints a dim rule with a centered label, used to frame
// previews of generated sections.
func PrintSeparator(out io.Writer, label string) {
	termWidth := GetTerminalWidth()
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintVersionHeader prints the resolved release (e.g., "v1.2.0 (from v1.1.0)").
func PrintVersionHeader(out io.Writer, version, previous string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	if previous == "" {
		fmt.Fprintf(out, "%s %s\n", cyan(version), dim("(first release)"))
		return
	}
	fmt.Fprintf(out, "%s %s\n", cyan(version), dim("(from "+previous+")"))
}

// PrintSuccess prints a green checkmark followed by message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintWarning prints a yellow warning line.
func PrintWarning(out io.Writer, message string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("Warning:"), message)
}

// PrintDryRun notes that nothing was written.
func PrintDryRun(out io.Writer, message string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", magenta("→ Dry run:"), dim(message))
}
