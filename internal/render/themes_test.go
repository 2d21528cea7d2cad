package render

import "testing"

func TestTUIThemes(t *testing.T) {
	names := TUIThemeNames()
	if len(names) != 5 {
		t.Fatalf("expected 5 themes, got %v", names)
	}
	if names[0] != ThemeTokyoNight {
		t.Errorf("default theme should come first, got %s", names[0])
	}

	for _, theme := range AvailableTUIThemes() {
		colors := map[string]string{
			"Background": string(theme.Background),
			"Surface":    string(theme.Surface),
			"Border":     string(theme.Border),
			"Primary":    string(theme.Primary),
			"Secondary":  string(theme.Secondary),
			"Error":      string(theme.Error),
			"Text":       string(theme.Text),
			"TextDim":    string(theme.TextDim),
			"OnPrimary":  string(theme.OnPrimary),
		}
		for field, c := range colors {
			if c == "" {
				t.Errorf("theme %s has empty %s", theme.Name, field)
			}
		}
		if theme.Description == "" {
			t.Errorf("theme %s has no description", theme.Name)
		}
	}
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme(ThemeTokyoNight)

	if !SetTUITheme(ThemeEcho) {
		t.Fatal("SetTUITheme(echo) = false")
	}
	if GetTUITheme().Name != ThemeEcho {
		t.Errorf("active theme = %s, want echo", GetTUITheme().Name)
	}

	if SetTUITheme("solarized") {
		t.Error("SetTUITheme accepted an unknown theme")
	}
	if GetTUITheme().Name != ThemeEcho {
		t.Error("unknown theme changed the active theme")
	}
}

func TestIsBuiltinStyle(t *testing.T) {
	tests := map[string]bool{
		ThemeNord:         true,
		StyleDark:         true,
		StyleNoTTY:        true,
		"/tmp/style.json": false,
		"":                false,
	}
	for name, want := range tests {
		if got := IsBuiltinStyle(name); got != want {
			t.Errorf("IsBuiltinStyle(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestGlamourStyle(t *testing.T) {
	cfg := GlamourStyle(EchoTheme)

	if cfg.Document.Color == nil || *cfg.Document.Color != string(EchoTheme.Text) {
		t.Error("document color should follow the theme text color")
	}
	if cfg.Link.Color == nil || *cfg.Link.Color != string(EchoTheme.Accent) {
		t.Error("link color should follow the theme accent")
	}
}

func TestAvailableStyles(t *testing.T) {
	styles := AvailableStyles()
	if len(styles) != len(AvailableTUIThemes())+4 {
		t.Errorf("unexpected style count %d", len(styles))
	}
	for _, s := range styles {
		if !IsBuiltinStyle(s.Name) {
			t.Errorf("listed style %q is not builtin", s.Name)
		}
	}
}
