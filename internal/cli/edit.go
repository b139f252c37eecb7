package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlive/pkg/editor"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// editCommand creates the interactive edit command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		output    string
		algorithm string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "edit [scene.json]",
		Short: "Edit a graph interactively in the terminal",
		Long: `Edit a graph interactively in the terminal.

Type commands such as "add", "edge 0 1" or "layout circular" and watch the
node table follow the layout. Type "help" for the full list. The graph is
written to --output (or back to the input file) on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if output == "" {
				output = input
			}
			return c.runEdit(cmd.Context(), input, output, algorithm, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "scene file written on exit (default: the input)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input, output, algorithm string, noCache bool) error {
	var sc *scene.Scene
	if input != "" {
		var err error
		if sc, err = scene.ReadFile(input); err != nil {
			return fmt.Errorf("load scene %s: %w", input, err)
		}
	}

	// Diagnostics go to the status line; logging would tear the screen.
	sess, err := c.newSession(ctx, pickAlgorithm(algorithm, sc), noCache,
		editor.WithLogger(log.New(io.Discard)),
		editor.WithDiagnostics(func(error) {}))
	if err != nil {
		return fmt.Errorf("initialize editor: %w", err)
	}
	defer sess.Close()

	if sc != nil {
		if _, _, err := scene.Load(sess.ed, sc); err != nil {
			return fmt.Errorf("load scene %s: %w", input, err)
		}
	}

	m := newEditModel(&interpreter{ed: sess.ed, resolve: c.resolver(sess.cache)})
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return err
	}

	if output == "" {
		printInfo("Exited without saving (no --output)")
		return nil
	}
	if err := scene.WriteFile(output, scene.Capture(sess.ed)); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Saved scene")
	printSceneFile(output)
	printStats(statsOfEditor(sess.ed))
	return nil
}

// =============================================================================
// editModel - interactive editor
// =============================================================================

type editKeys struct {
	Run  key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k editKeys) ShortHelp() []key.Binding  { return []key.Binding{k.Run, k.Help, k.Quit} }
func (k editKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var defaultEditKeys = editKeys{
	Run:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "run")),
	Help: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "commands")),
	Quit: key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

// editModel is the bubbletea model for the interactive editor.
type editModel struct {
	in       *interpreter
	input    textinput.Model
	help     help.Model
	keys     editKeys
	status   string
	failed   bool
	showHelp bool
	height   int
}

func newEditModel(in *interpreter) editModel {
	ti := textinput.New()
	ti.Placeholder = "add 0 0 40 20"
	ti.Prompt = "› "
	ti.Focus()
	return editModel{
		in:     in,
		input:  ti,
		help:   help.New(),
		keys:   defaultEditKeys,
		height: 15,
	}
}

func (m editModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Run):
			m = m.run(m.input.Value())
			m.input.Reset()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
		m.help.Width = msg.Width
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// run executes one command line and records its outcome.
func (m editModel) run(line string) editModel {
	if strings.TrimSpace(line) == "help" {
		m.showHelp = true
		m.status, m.failed = "", false
		return m
	}
	msg, err := m.in.exec(line)
	if err != nil {
		m.status, m.failed = errors.UserMessage(err), true
		return m
	}
	m.status, m.failed = msg, false
	return m
}

func (m editModel) View() string {
	var b strings.Builder
	ed := m.in.ed

	b.WriteString(StyleTitle.Render("graphlive"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(layoutSummary(ed)))
	b.WriteString("\n\n")
	b.WriteString(nodeTable(ed, m.height))
	b.WriteString("\n\n")

	if m.showHelp {
		for _, line := range commandHelp {
			b.WriteString(StyleDim.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if m.status != "" {
		icon, style := styleIconSuccess.Render(iconSuccess), StyleValue
		if m.failed {
			icon, style = styleIconError.Render(iconError), StyleWarning
		}
		b.WriteString(icon + " " + style.Render(m.status) + "\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// layoutSummary describes the editor's layout state on one line.
func layoutSummary(ed *editor.Editor) string {
	state := "valid"
	if !ed.LayoutValid() {
		state = "stale"
	}
	auto := "auto"
	if !ed.AutoLayout() {
		auto = "manual"
	}
	return fmt.Sprintf("%d nodes · %d edges · %s (%s, %s) · %d runs",
		ed.NodeCount(), ed.EdgeCount(), ed.Algorithm().Name(), auto, state, ed.LayoutRuns())
}

// nodeTable renders up to limit nodes with their geometry and out-edges.
func nodeTable(ed *editor.Editor, limit int) string {
	out := make(map[int][]string)
	for _, e := range ed.EdgeIndices() {
		s, t, err := ed.EdgeEndpoints(e)
		if err != nil {
			continue
		}
		out[s] = append(out[s], fmt.Sprintf("%d→%d", e, t))
	}

	indices := ed.NodeIndices()
	rows := make([][]string, 0, min(len(indices), limit))
	for _, idx := range indices[:min(len(indices), limit)] {
		n, err := ed.NodeAttributes(idx)
		if err != nil {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(idx),
			fmt.Sprintf("%.1f", n.X), fmt.Sprintf("%.1f", n.Y),
			fmt.Sprintf("%.0f×%.0f", n.Width, n.Height),
			string(n.Shape),
			strings.Join(out[idx], " "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "X", "Y", "Size", "Shape", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 5:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})

	s := t.Render()
	if hidden := len(indices) - len(rows); hidden > 0 {
		s += "\n" + StyleDim.Render(fmt.Sprintf("  … %d more", hidden))
	}
	return s
}
