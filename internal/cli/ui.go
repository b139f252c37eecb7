package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphlive/pkg/editor"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// uiOut receives status output. Command results meant for piping go to
// cmd.OutOrStdout instead.
var uiOut io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders the editor title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders values and paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warnings and failed commands.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleAlgorithm   = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printLine(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(uiOut, icon.Render(glyph)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError, iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(StyleWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a label padded to a column and its value.
func printKeyValue(key, value string) {
	label := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(uiOut, label.Render(key)+" "+StyleValue.Render(value))
}

// printOutput prints a written file and what it holds, e.g. "svg".
func printOutput(path, kind string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path)+" "+StyleDim.Render("("+kind+")"))
}

// printSceneFile prints a written scene file with its encoding.
func printSceneFile(path string) {
	printOutput(path, string(scene.FormatFromPath(path))+" scene")
}

// printHint suggests the command to run next, after a blank line.
func printHint(description, cmd string) {
	fmt.Fprintln(uiOut)
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// sceneStats is the closing summary of a command that produced a graph.
type sceneStats struct {
	nodes, edges int
	algorithm    string
	runs         int
}

func statsOfScene(sc *scene.Scene) sceneStats {
	return sceneStats{nodes: len(sc.Nodes), edges: len(sc.Edges), algorithm: sc.Algorithm}
}

func statsOfEditor(ed *editor.Editor) sceneStats {
	return sceneStats{
		nodes:     ed.NodeCount(),
		edges:     ed.EdgeCount(),
		algorithm: ed.Algorithm().Name(),
		runs:      ed.LayoutRuns(),
	}
}

// String renders "6 nodes · 5 edges · circular · 1 layout run". The
// algorithm and run count are left out when unknown.
func (s sceneStats) String() string {
	parts := []string{
		StyleDim.Render(plural(s.nodes, "node")),
		StyleDim.Render(plural(s.edges, "edge")),
	}
	if s.algorithm != "" {
		parts = append(parts, styleAlgorithm.Render(s.algorithm))
	}
	if s.runs > 0 {
		parts = append(parts, StyleDim.Render(plural(s.runs, "layout run")))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func printStats(s sceneStats) {
	fmt.Fprintln(uiOut, "  "+s.String())
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
