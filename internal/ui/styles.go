package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a palette of terminal colors.
type Theme struct {
	Name      string
	Border    lipgloss.Color
	Accent    lipgloss.Color
	Title     lipgloss.Color
	Label     lipgloss.Color
	Value     lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Selected  lipgloss.Color
	Running   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

const (
	ThemeDefault  = "default"
	ThemeDark     = "dark"
	ThemeDarkGray = "dark-gray"
)

var Themes = []Theme{
	{
		Name:      ThemeDefault,
		Border:    "240",
		Accent:    "205",
		Title:     "86",
		Label:     "86",
		Value:     "220",
		Muted:     "241",
		Highlight: "36",
		Selected:  "240",
		Running:   "46",
		Warning:   "226",
		Error:     "196",
	},
	{
		Name:      ThemeDark,
		Border:    "237",
		Accent:    "141",
		Title:     "75",
		Label:     "111",
		Value:     "252",
		Muted:     "243",
		Highlight: "81",
		Selected:  "236",
		Running:   "114",
		Warning:   "179",
		Error:     "203",
	},
	{
		Name:      ThemeDarkGray,
		Border:    "239",
		Accent:    "250",
		Title:     "255",
		Label:     "248",
		Value:     "253",
		Muted:     "244",
		Highlight: "252",
		Selected:  "238",
		Running:   "150",
		Warning:   "186",
		Error:     "174",
	},
}

var (
	BaseStyle        lipgloss.Style
	HeaderStyle      lipgloss.Style
	TitleStyle       lipgloss.Style
	ActiveTabStyle   lipgloss.Style
	InactiveTabStyle lipgloss.Style
	LabelStyle       lipgloss.Style
	ValueStyle       lipgloss.Style
	MutedStyle       lipgloss.Style
	IndicatorStyle   lipgloss.Style
	SuccessStyle     lipgloss.Style
	WarningStyle     lipgloss.Style
	ErrorStyle       lipgloss.Style
	TableHeaderStyle lipgloss.Style
	SelectedRowStyle lipgloss.Style
	SelectedArgStyle lipgloss.Style
	ModeLaunchStyle  lipgloss.Style
	ModeEditStyle    lipgloss.Style
	DialogStyle      lipgloss.Style
)

func init() {
	ApplyTheme(ThemeDefault)
}

// FindTheme returns the theme called name, falling back to the default.
func FindTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ApplyTheme rebuilds the package styles from the named theme and returns
// the name actually applied.
func ApplyTheme(name string) string {
	t := FindTheme(name)

	BaseStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Underline(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(t.Title).
		Bold(true).
		Align(lipgloss.Center)

	tab := lipgloss.NewStyle().
		Padding(0, 1).
		Margin(0, 1)

	ActiveTabStyle = tab.
		Foreground(t.Highlight).
		Bold(true).
		Underline(true)

	InactiveTabStyle = tab.
		Foreground(t.Muted)

	LabelStyle = lipgloss.NewStyle().
		Foreground(t.Label).
		Bold(true)

	ValueStyle = lipgloss.NewStyle().
		Foreground(t.Value)

	MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	IndicatorStyle = lipgloss.NewStyle().
		Foreground(t.Highlight).
		Bold(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Running)

	WarningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		PaddingLeft(1).
		PaddingRight(1)

	SelectedRowStyle = lipgloss.NewStyle().
		Background(t.Selected).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		PaddingLeft(1).
		PaddingRight(1)

	SelectedArgStyle = lipgloss.NewStyle().
		Foreground(t.Value).
		Underline(true).
		Bold(true)

	ModeLaunchStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(t.Running).
		Padding(0, 1).
		Bold(true)

	ModeEditStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(t.Warning).
		Padding(0, 1).
		Bold(true)

	DialogStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(t.Warning).
		Padding(0, 2)

	return t.Name
}
