package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabalesh/procdeck/internal/board"
	"github.com/prabalesh/procdeck/internal/config"
	"github.com/prabalesh/procdeck/internal/models"
	"github.com/prabalesh/procdeck/internal/profile"
)

func newTestApp(t *testing.T) (*App, *config.Store) {
	t.Helper()
	t.Setenv("PROCDECK_THEME", "")
	conf := config.NewStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, conf.Read())

	a := NewApp(Options{Config: conf})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(a.board.EndAll)
	return a, conf
}

func threeGroups() *models.Profile {
	return &models.Profile{Groups: []models.Group{
		{Name: "api", Processes: []models.ProcessSpec{{Dir: "~/api", Args: []string{"go", "run", "."}}}},
		{Name: "web", Processes: []models.ProcessSpec{{Dir: "~/web", Args: []string{"npm", "run", "dev"}}}},
		{Name: "docs", Processes: []models.ProcessSpec{}},
	}}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyMsg(k))
	}
	return cmd
}

// submit answers the open prompt with value.
func submit(t *testing.T, a *App, value string) {
	t.Helper()
	require.NotEqual(t, promptNone, a.promptKind, "no prompt open")
	a.prompt.SetValue(value)
	press(a, "enter")
	assert.Equal(t, promptNone, a.promptKind)
}

func TestApp_ToggleSwitchesBindings(t *testing.T) {
	a, _ := newTestApp(t)
	assert.True(t, a.keys.Restart.Enabled())
	assert.False(t, a.keys.NewGroup.Enabled())

	press(a, "e")
	assert.Equal(t, board.ModeEdit, a.board.Mode())
	assert.False(t, a.keys.Restart.Enabled())
	assert.True(t, a.keys.NewGroup.Enabled())

	press(a, "e")
	assert.Equal(t, board.ModeLaunch, a.board.Mode())
	assert.True(t, a.keys.Restart.Enabled())
}

func TestApp_LaunchModeIgnoresEditKeys(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "n", "p")
	assert.Equal(t, 0, a.board.Len())
	assert.Equal(t, promptNone, a.promptKind)
}

func TestApp_EditArguments(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "e", "n")
	require.Equal(t, 1, a.board.Len())

	press(a, "p")
	submit(t, a, `npm run "dev server"`)
	e := a.currentEntry()
	require.NotNil(t, e)
	assert.Equal(t, []string{"npm", "run", "dev server"}, e.Spec().Args)
	assert.Equal(t, board.DefaultDirectory, e.Spec().Dir)

	press(a, "]", "A")
	submit(t, a, "--port")
	assert.Equal(t, []string{"npm", "run", "--port", "dev server"}, e.Spec().Args)
	assert.Equal(t, 2, a.argCursor)

	press(a, "i")
	submit(t, a, "-w")
	assert.Equal(t, []string{"npm", "run", "-w", "--port", "dev server"}, e.Spec().Args)

	press(a, "enter")
	assert.Equal(t, "-w", a.prompt.Value())
	submit(t, a, "--watch")
	assert.Equal(t, []string{"npm", "run", "--watch", "--port", "dev server"}, e.Spec().Args)

	press(a, "backspace", "backspace")
	assert.Equal(t, []string{"npm", "run", "dev server"}, e.Spec().Args)

	press(a, "[", "[", "[")
	assert.Equal(t, 0, a.argCursor)

	press(a, "c")
	assert.Equal(t, board.DefaultDirectory, a.prompt.Value())
	submit(t, a, "/srv/web")
	assert.Equal(t, "/srv/web", e.Spec().Dir)
}

func TestApp_DeleteOnlyArgumentIsRefused(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(&models.Profile{Groups: []models.Group{{Name: "g", Processes: []models.ProcessSpec{
		{Dir: "/", Args: []string{"htop"}},
	}}}})

	press(a, "e", "backspace")
	e := a.currentEntry()
	require.NotNil(t, e)
	assert.Equal(t, []string{"htop"}, e.Spec().Args)
	assert.True(t, a.messageErr)
	assert.Contains(t, a.message, board.ErrLastArg.Error())

	require.NoError(t, a.SaveProfile(filepath.Join(t.TempDir(), "g.json")))
}

func TestApp_EndAllClearsBoard(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(threeGroups())
	press(a, "3", "X")
	assert.Equal(t, 0, a.board.Len())
	assert.Equal(t, 0, a.activeTab)
	assert.Nil(t, a.currentGroup())
	assert.False(t, a.messageErr)
}

func TestApp_AddProcessRejectsBadQuoting(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "e", "n", "p")
	submit(t, a, `echo "unterminated`)
	g := a.currentGroup()
	require.NotNil(t, g)
	assert.Equal(t, 0, g.Len())
	assert.True(t, a.messageErr)
}

func TestApp_PromptEscapeCancels(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "e", "n", "R")
	require.Equal(t, promptRename, a.promptKind)
	press(a, "esc")
	assert.Equal(t, promptNone, a.promptKind)

	g := a.currentGroup()
	require.NotNil(t, g)
	assert.Equal(t, board.DefaultGroupName, g.Title())

	press(a, "R")
	submit(t, a, "workers")
	assert.Equal(t, "workers", g.Name())
}

func TestApp_JumpToGroup(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(threeGroups())

	press(a, "3")
	assert.Equal(t, 2, a.activeTab)
	press(a, "9")
	assert.Equal(t, 2, a.activeTab)
	press(a, "1")
	assert.Equal(t, 0, a.activeTab)
}

func TestApp_DeleteGroupRenumbers(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(threeGroups())

	press(a, "e", "1", "D")
	require.Equal(t, 2, a.board.Len())
	for i, g := range a.board.Groups() {
		assert.Equal(t, i, g.Index)
	}
	assert.Equal(t, 0, a.activeTab)
	assert.Equal(t, "web", a.currentGroup().Name())

	press(a, "C")
	assert.Equal(t, 0, a.board.Len())
	assert.Nil(t, a.currentGroup())
}

func TestApp_SaveAndOpenProfile(t *testing.T) {
	a, conf := newTestApp(t)
	a.board.Load(threeGroups())
	path := filepath.Join(t.TempDir(), "dev.json")

	press(a, "w")
	submit(t, a, path)
	assert.False(t, a.messageErr, a.message)
	assert.Equal(t, path, conf.Get().LastProfile)

	saved, err := profile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, threeGroups(), saved)

	b, _ := newTestApp(t)
	press(b, "o")
	submit(t, b, path)
	assert.False(t, b.messageErr, b.message)
	assert.Equal(t, threeGroups(), b.board.Profile())
	assert.Equal(t, path, b.profilePath)
}

func TestApp_OpenMissingProfile(t *testing.T) {
	a, conf := newTestApp(t)
	press(a, "o")
	submit(t, a, filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, a.messageErr)
	assert.Empty(t, conf.Get().LastProfile)
	assert.Empty(t, a.profilePath)
}

func TestApp_ThemeCyclePersists(t *testing.T) {
	a, conf := newTestApp(t)
	t.Cleanup(func() { ApplyTheme(ThemeDefault) })

	press(a, "T")
	assert.Equal(t, ThemeDark, a.theme)
	assert.Equal(t, ThemeDark, conf.Get().Theme)

	press(a, "T", "T")
	assert.Equal(t, ThemeDefault, conf.Get().Theme)
}

func TestApp_QuitWithNothingRunning(t *testing.T) {
	a, _ := newTestApp(t)
	a.board.Load(threeGroups())

	cmd := press(a, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, a.confirmingQuit)
}

func TestApp_View(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Contains(t, a.View(), noProfile)
	assert.Contains(t, a.View(), "LAUNCH")

	a.board.Load(threeGroups())
	view := a.View()
	assert.Contains(t, view, "1:api")
	assert.Contains(t, view, "go run .")

	press(a, "e")
	assert.Contains(t, a.View(), "EDIT")
	assert.Contains(t, a.View(), "[go]")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "long ar...", truncateString("long argument list", 10))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
	assert.Equal(t, "日本...", truncateString("日本語テキスト", 7))
}

func TestSplitCommandLine(t *testing.T) {
	args, err := splitCommandLine(`python -m http.server 'my dir'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "-m", "http.server", "my dir"}, args)

	_, err = splitCommandLine("   ")
	assert.Error(t, err)
}
