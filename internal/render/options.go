// Package render turns assistant replies into styled terminal output.
package render

import "github.com/diogo/echochat/internal/config"

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column. Zero disables wrapping.
	Width int

	// Style is a TUI theme name, a glamour standard style or a path to a
	// glamour JSON style file.
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
}

// DefaultOptions returns the defaults used when no config is loaded.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeTokyoNight,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy of o with the given width.
func (o Options) WithWidth(width int) Options {
	if width < 0 {
		width = 0
	}
	o.Width = width
	return o
}

// WithStyle returns a copy of o with the given style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns a copy of o with emoji shortcodes on or off.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns a copy of o with newline preservation on or off.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

// OptionsFromConfig builds render options from the loaded configuration.
// An empty markdown style falls back to the TUI theme so replies match the
// surrounding chrome.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	switch {
	case md.Style != "":
		opts.Style = md.Style
	case cfg.TUITheme != "":
		opts.Style = cfg.TUITheme
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	return opts
}
