package render

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUI theme names
const (
	ThemeTokyoNight = "tokyonight"
	ThemeCatppuccin = "catppuccin"
	ThemeNord       = "nord"
	ThemeDracula    = "dracula"
	ThemeEcho       = "echo"
)

// TUITheme is the palette for the chat interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color // user bubbles, header
	Secondary lipgloss.Color // connectivity indicator
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// OnPrimary is the text color drawn on Primary
	OnPrimary lipgloss.Color
}

var (
	TokyoNightTheme = TUITheme{
		Name:        ThemeTokyoNight,
		Description: "Tokyo Night, dark with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		OnPrimary: lipgloss.Color("#1a1b26"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        ThemeCatppuccin,
		Description: "Catppuccin Mocha, warm pastels",

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#a6e3a1"),
		Accent:    lipgloss.Color("#cba6f7"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),

		OnPrimary: lipgloss.Color("#1e1e2e"),
	}

	NordTheme = TUITheme{
		Name:        ThemeNord,
		Description: "Nord, cool arctic tones",

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"),
		Secondary: lipgloss.Color("#a3be8c"),
		Accent:    lipgloss.Color("#b48ead"),
		Warning:   lipgloss.Color("#ebcb8b"),
		Error:     lipgloss.Color("#bf616a"),

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),

		OnPrimary: lipgloss.Color("#2e3440"),
	}

	DraculaTheme = TUITheme{
		Name:        ThemeDracula,
		Description: "Dracula, vivid on dark",

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		Primary:   lipgloss.Color("#8be9fd"),
		Secondary: lipgloss.Color("#50fa7b"),
		Accent:    lipgloss.Color("#ff79c6"),
		Warning:   lipgloss.Color("#f1fa8c"),
		Error:     lipgloss.Color("#ff5555"),

		Text:     lipgloss.Color("#f8f8f2"),
		TextDim:  lipgloss.Color("#6272a4"),
		TextMute: lipgloss.Color("#44475a"),

		OnPrimary: lipgloss.Color("#282a36"),
	}

	// EchoTheme mirrors the web client: blue user bubbles on a light gray
	// page, white assistant bubbles and a green status dot.
	EchoTheme = TUITheme{
		Name:        ThemeEcho,
		Description: "Echo, light with blue bubbles",

		Background: lipgloss.Color("#f3f4f6"),
		Surface:    lipgloss.Color("#ffffff"),
		Border:     lipgloss.Color("#e5e7eb"),

		Primary:   lipgloss.Color("#2563eb"),
		Secondary: lipgloss.Color("#22c55e"),
		Accent:    lipgloss.Color("#3b82f6"),
		Warning:   lipgloss.Color("#f59e0b"),
		Error:     lipgloss.Color("#ef4444"),

		Text:     lipgloss.Color("#1f2937"),
		TextDim:  lipgloss.Color("#6b7280"),
		TextMute: lipgloss.Color("#9ca3af"),

		OnPrimary: lipgloss.Color("#ffffff"),
	}
)

var tuiThemes = map[string]TUITheme{
	ThemeTokyoNight: TokyoNightTheme,
	ThemeCatppuccin: CatppuccinMochaTheme,
	ThemeNord:       NordTheme,
	ThemeDracula:    DraculaTheme,
	ThemeEcho:       EchoTheme,
}

var (
	themeMu         sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the active theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the named theme. Unknown names leave the active
// theme unchanged and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a theme up by name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	theme, ok := tuiThemes[name]
	return theme, ok
}

// AvailableTUIThemes returns every theme, default first
func AvailableTUIThemes() []TUITheme {
	out := []TUITheme{TokyoNightTheme}
	for _, name := range TUIThemeNames()[1:] {
		out = append(out, tuiThemes[name])
	}
	return out
}

// TUIThemeNames returns the theme names, default first and the rest sorted
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		if name != ThemeTokyoNight {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{ThemeTokyoNight}, names...)
}
