package render

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Glamour standard style names
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleASCII = "ascii"
)

// StyleInfo describes a selectable markdown style.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the markdown styles: every TUI theme first, then the
// glamour standard styles.
func AvailableStyles() []StyleInfo {
	themes := AvailableTUIThemes()
	out := make([]StyleInfo, 0, len(themes)+4)
	for _, t := range themes {
		out = append(out, StyleInfo{Name: t.Name, Description: t.Description})
	}
	return append(out,
		StyleInfo{Name: StyleDark, Description: "Glamour dark"},
		StyleInfo{Name: StyleLight, Description: "Glamour light, for bright terminals"},
		StyleInfo{Name: StyleNoTTY, Description: "Plain text"},
		StyleInfo{Name: StyleASCII, Description: "ASCII only"},
	)
}

// IsBuiltinStyle reports whether name needs no style file.
func IsBuiltinStyle(name string) bool {
	if _, ok := GetTUIThemeByName(name); ok {
		return true
	}
	_, ok := styles.DefaultStyles[name]
	return ok
}

// styleOption maps a style name to a glamour option. TUI theme names get a
// palette-matched style, everything else goes to glamour as a standard style
// name or a JSON file path.
func styleOption(name string) glamour.TermRendererOption {
	if theme, ok := GetTUIThemeByName(name); ok {
		return glamour.WithStyles(GlamourStyle(theme))
	}
	if name == "" {
		name = StyleDark
	}
	return glamour.WithStylePath(name)
}

// GlamourStyle derives a markdown style from a TUI theme, starting from the
// glamour dark style.
func GlamourStyle(theme TUITheme) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	text := string(theme.Text)
	primary := string(theme.Primary)
	secondary := string(theme.Secondary)
	accent := string(theme.Accent)
	dim := string(theme.TextDim)
	surface := string(theme.Surface)
	background := string(theme.Background)
	var zero uint

	cfg.Document.Color = &text
	cfg.Document.Margin = &zero
	cfg.Heading.Color = &primary
	cfg.H1.Color = &background
	cfg.H1.BackgroundColor = &primary
	cfg.Link.Color = &accent
	cfg.LinkText.Color = &secondary
	cfg.Code.Color = &secondary
	cfg.Code.BackgroundColor = &surface
	cfg.BlockQuote.Color = &dim
	cfg.HorizontalRule.Color = &dim
	cfg.Item.Color = &primary
	cfg.Enumeration.Color = &primary

	return cfg
}
