package changelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// PrefixStyle defines the color and icon for a commit prefix.
type PrefixStyle struct {
	Color *color.Color
	Icon  string
}

// prefixStyles maps common conventional-commit prefixes to terminal styling.
var prefixStyles = map[string]PrefixStyle{
	"feat":     {Color: color.New(color.FgGreen), Icon: "✓"},
	"fix":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"perf":     {Color: color.New(color.FgCyan), Icon: "»"},
	"refactor": {Color: color.New(color.FgBlue), Icon: "~"},
	"docs":     {Color: color.New(color.FgMagenta), Icon: "✎"},
	"revert":   {Color: color.New(color.FgRed), Icon: "✗"},
}

var defaultPrefixStyle = PrefixStyle{Color: color.New(color.FgWhite), Icon: "•"}

// headingColors colors markdown headings by depth, starting at "##".
var headingColors = []*color.Color{
	color.New(color.Bold, color.FgWhite),
	color.New(color.Bold, color.FgCyan),
	color.New(color.FgBlue),
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatPreview writes a rendered changelog section with terminal styling.
// Headings are colored by depth and list entries are wrapped to the
// terminal width. Plain output reproduces the section unchanged.
func FormatPreview(w io.Writer, section string, opts FormatOptions) error {
	if opts.Plain {
		if section == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, section)
		return err
	}

	width := resolveWidth(opts.MaxWidth)

	scanner := bufio.NewScanner(strings.NewReader(section))
	for scanner.Scan() {
		if err := writePreviewLine(w, scanner.Text(), width); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
	}
	return scanner.Err()
}

func writePreviewLine(w io.Writer, line string, width int) error {
	if depth := headingDepth(line); depth > 0 {
		c := headingColors[min(max(depth-2, 0), len(headingColors)-1)]
		_, err := fmt.Fprintln(w, c.Sprint(line))
		return err
	}

	if rest, ok := strings.CutPrefix(line, "- "); ok {
		prefix := "  - "
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, wrapText(rest, width-len(prefix), "    "))
		return err
	}

	_, err := fmt.Fprintln(w, line)
	return err
}

// headingDepth returns the number of leading '#' of a markdown heading, or 0.
func headingDepth(line string) int {
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	if depth == 0 || (depth < len(line) && line[depth] != ' ') {
		return 0
	}
	return depth
}

// FormatCommitSummary returns a brief one-line summary of a classified commit.
func FormatCommitSummary(c Commit, opts FormatOptions) string {
	style, ok := prefixStyles[c.Prefix]
	if !ok {
		style = defaultPrefixStyle
	}

	label := c.Prefix
	if c.Scope != "" {
		label += "(" + c.Scope + ")"
	}
	if c.BreakingChange {
		label += "!"
	}
	if label == "" {
		label = "-"
	}
	text := truncateText(c.Subject, 60)
	short := ShortHash(c.Hash)

	if opts.Plain {
		return strings.TrimSpace(fmt.Sprintf("%s [%s] %s", short, label, text))
	}

	colored := style.Color.SprintFunc()
	line := fmt.Sprintf("%s %s %s", colored(style.Icon), colored(label), text)
	if short != "" {
		line = color.New(color.Faint).Sprint(short) + " " + line
	}
	return line
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
