package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphlive/pkg/layout"
	"github.com/matzehuels/graphlive/pkg/render"
	"github.com/matzehuels/graphlive/pkg/scene"
	"github.com/matzehuels/graphlive/pkg/storage"
)

// testEnv writes a config with the layout cache disabled and scenes kept
// under a temp directory.
type testEnv struct {
	dir    string
	config string
	scenes string
	cache  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "graphlive.toml"),
		scenes: filepath.Join(dir, "scenes"),
		cache:  filepath.Join(dir, "cache"),
	}
	cfg := fmt.Sprintf(`
[layout]
algorithm = "circular"

[cache]
backend = "none"
dir = %q

[storage]
backend = "file"
dir = %q

[log]
level = "warn"
`, env.cache, env.scenes)
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0o644))
	return env
}

// run executes the root command with args and returns its stdout.
func (env testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", env.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (env testEnv) path(name string) string { return filepath.Join(env.dir, name) }

func TestGenerateLayoutRender(t *testing.T) {
	env := newTestEnv(t)
	graph := env.path("tree.json")

	_, err := env.run(t, "generate", "tree", "-n", "6", "--seed", "7", "--name", "demo", "-o", graph)
	require.NoError(t, err)

	sc, err := scene.ReadFile(graph)
	require.NoError(t, err)
	assert.Equal(t, "demo", sc.Name)
	assert.Equal(t, layout.NameCircular, sc.Algorithm, "algorithm comes from the config")
	assert.Len(t, sc.Nodes, 6)
	assert.Len(t, sc.Edges, 5)

	laid := env.path("tree.layout.yaml")
	_, err = env.run(t, "layout", graph, "-a", layout.NameHierarchical, "-o", laid)
	require.NoError(t, err)

	out, err := scene.ReadFile(laid)
	require.NoError(t, err)
	assert.Equal(t, layout.NameHierarchical, out.Algorithm)
	assert.Equal(t, "demo", out.Name)
	assert.Len(t, out.Nodes, 6)

	dot := env.path("tree.dot")
	_, err = env.run(t, "render", laid, "-f", "dot", "-o", dot, "--labels")
	require.NoError(t, err)
	data, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph"))
}

func TestGenerateRejectsUnknownFamily(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "generate", "spiral", "-o", env.path("x.json"))
	assert.Error(t, err)
}

func TestLayoutMissingInput(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "layout", env.path("missing.json"))
	assert.Error(t, err)
}

func TestRenderUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	graph := env.path("g.json")
	_, err := env.run(t, "generate", "simple", "-n", "4", "-m", "3", "-o", graph)
	require.NoError(t, err)

	_, err = env.run(t, "render", graph, "-f", "gif")
	assert.Error(t, err)
}

func TestScenesCommands(t *testing.T) {
	env := newTestEnv(t)
	graph := env.path("g.json")
	_, err := env.run(t, "generate", "tree", "-n", "4", "-o", graph)
	require.NoError(t, err)

	_, err = env.run(t, "scenes", "save", graph, "--name", "saved-demo")
	require.NoError(t, err)

	out, err := env.run(t, "scenes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "saved-demo")

	st, err := storage.NewFileStore(env.scenes)
	require.NoError(t, err)
	list, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	out, err = env.run(t, "scenes", "get", id)
	require.NoError(t, err)
	sc, err := scene.Read(strings.NewReader(out), scene.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, sc.Nodes, 4)

	_, err = env.run(t, "scenes", "delete", id)
	require.NoError(t, err)
	_, err = env.run(t, "scenes", "get", id)
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, env.cache, strings.TrimSpace(out))

	_, err = env.run(t, "cache", "clear")
	assert.NoError(t, err, "non-file backends are a warning, not an error")
}

func TestConfigErrors(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "missing.toml")
	_, err := c.config()
	assert.Error(t, err)
}

func TestConfigLogLevel(t *testing.T) {
	env := newTestEnv(t)

	c := New(io.Discard, LogInfo)
	c.configPath = env.config
	_, err := c.config()
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, c.Logger.GetLevel())

	verbose := New(io.Discard, LogDebug)
	verbose.configPath = env.config
	_, err = verbose.config()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, verbose.Logger.GetLevel(), "--verbose wins")
}

func TestOutputPaths(t *testing.T) {
	svg := []render.Format{render.FormatSVG}
	both := []render.Format{render.FormatSVG, render.FormatDOT}

	assert.Equal(t, []string{"g.svg"}, outputPaths("g.json", "", svg))
	assert.Equal(t, []string{"out.png"}, outputPaths("g.json", "out.png", svg))
	assert.Equal(t, []string{"out.svg", "out.dot"}, outputPaths("g.json", "out.x", both))
	assert.Equal(t, []string{"dir/g.svg", "dir/g.dot"}, outputPaths("dir/g.yaml", "", both))
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "g.layout.json", defaultOutput("g.json", ".layout"))
	assert.Equal(t, "g.layout.yaml", defaultOutput("g.yaml", ".layout"))
	assert.Equal(t, "g.layout.json", defaultOutput("g", ".layout"))
}

func TestPickAlgorithm(t *testing.T) {
	sc := &scene.Scene{Algorithm: layout.NameForce}
	assert.Equal(t, "circular", pickAlgorithm("circular", sc))
	assert.Equal(t, layout.NameForce, pickAlgorithm("", sc))
	assert.Equal(t, "", pickAlgorithm("", nil))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
		{now.Add(-30 * 24 * time.Hour), "Feb 8, 2026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRelativeTime(tt.t, now))
	}
}

func TestSummaryTable(t *testing.T) {
	now := time.Now()
	out := summaryTable([]storage.Summary{
		{ID: "a1", Name: "first", Nodes: 3, Edges: 2, UpdatedAt: now},
		{ID: "b2", Nodes: 1},
	}, now)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "b2")
	assert.Contains(t, out, "Nodes")
}

func TestEditModel(t *testing.T) {
	in := newInterpreter()
	var m tea.Model = newEditModel(in)

	typeLine := func(line string) {
		for _, r := range line {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	typeLine("add 1 2 3 4")
	assert.Equal(t, 1, in.ed.NodeCount())
	em := m.(editModel)
	assert.Equal(t, "added node 0", em.status)
	assert.False(t, em.failed)
	assert.Empty(t, em.input.Value(), "input resets after running")

	typeLine("rm 9")
	em = m.(editModel)
	assert.True(t, em.failed)

	typeLine("help")
	assert.True(t, m.(editModel).showHelp)

	view := m.View()
	assert.Contains(t, view, "1 nodes")
	assert.Contains(t, view, "edge <source> <target>")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
