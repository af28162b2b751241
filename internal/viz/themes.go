package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view header and traces.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeScope = Theme{
		Name:      "scope",
		Primary:   lipgloss.Color("#00ff88"),
		Secondary: lipgloss.Color("#33ff33"), // phosphor trace
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Muted:     lipgloss.Color("#666666"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Muted:     lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeScope

	Themes = []Theme{
		ThemeScope,
		ThemeCyberpunk,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name and whether it exists. Unknown names
// yield the default theme.
func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return ThemeScope, false
}

// SetTheme changes the current theme. It reports false for unknown names and
// leaves the current theme alone.
func SetTheme(name string) bool {
	t, ok := GetTheme(name)
	if ok {
		CurrentTheme = t
	}
	return ok
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
