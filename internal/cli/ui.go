package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Minor upgrades are green, major upgrades amber.
var (
	colorAccent = lipgloss.Color("36")
	colorMinor  = lipgloss.Color("35")
	colorMajor  = lipgloss.Color("220")
	colorError  = lipgloss.Color("167")
	colorLabel  = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorMinor)
)

var (
	styleMinor   = lipgloss.NewStyle().Foreground(colorMinor)
	styleMajor   = lipgloss.NewStyle().Foreground(colorMajor)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel)
	styleHeader  = styleLabel.Bold(true)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey     = styleLabel.Width(10)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconNone    = "—"
)

// stdout receives all human-readable command output.
var stdout io.Writer = os.Stdout

func status(icon lipgloss.Style, glyph, format string, args ...any) {
	fmt.Fprintln(stdout, icon.Render(glyph)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(styleMinor, iconSuccess, format, args...) }
func printWarning(format string, args ...any) { status(styleMajor, iconWarning, format, args...) }
func printInfo(format string, args ...any)    { status(styleLabel, iconInfo, format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+value)
}

func printNewline() { fmt.Fprintln(stdout) }

// orNone renders an empty candidate as a dim dash.
func orNone(s string, style lipgloss.Style) string {
	if s == "" {
		return StyleDim.Render(iconNone)
	}
	return style.Render(s)
}
