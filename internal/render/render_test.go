package render

import (
	"strings"
	"testing"

	"github.com/diogo/echochat/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != ThemeTokyoNight {
		t.Errorf("expected Style=%q, got %q", ThemeTokyoNight, opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("expected emoji, newlines and table wrap enabled, got %+v", opts)
	}
}

func TestOptionsChaining(t *testing.T) {
	base := DefaultOptions()
	opts := base.
		WithWidth(100).
		WithStyle(StyleLight).
		WithEmoji(false).
		WithPreserveNewLines(false)

	if opts.Width != 100 || opts.Style != StyleLight || opts.EnableEmoji || opts.PreserveNewLines {
		t.Errorf("unexpected options %+v", opts)
	}
	if base.Width != 80 {
		t.Error("With* modified the receiver")
	}
	if got := base.WithWidth(-5).Width; got != 0 {
		t.Errorf("negative width = %d, want 0", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantStyle string
		wantEmoji bool
	}{
		{
			name:      "defaults follow tui theme",
			mutate:    func(c *config.Config) {},
			wantStyle: ThemeTokyoNight,
			wantEmoji: true,
		},
		{
			name:      "theme without markdown style",
			mutate:    func(c *config.Config) { c.TUITheme = ThemeNord },
			wantStyle: ThemeNord,
			wantEmoji: true,
		},
		{
			name: "explicit markdown style wins",
			mutate: func(c *config.Config) {
				c.TUITheme = ThemeNord
				c.Markdown.Style = StyleASCII
				c.Markdown.EnableEmoji = false
			},
			wantStyle: StyleASCII,
			wantEmoji: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(&cfg)

			opts := OptionsFromConfig(cfg)
			if opts.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", opts.Style, tt.wantStyle)
			}
			if opts.EnableEmoji != tt.wantEmoji {
				t.Errorf("EnableEmoji = %v, want %v", opts.EnableEmoji, tt.wantEmoji)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		style    string
		contains []string
	}{
		{"plain text", "Hello world", StyleNoTTY, []string{"Hello world"}},
		{"bold", "Some **bold** text", StyleNoTTY, []string{"bold"}},
		{"list", "- one\n- two", StyleASCII, []string{"one", "two"}},
		{"code block", "```go\nfunc main() {}\n```", StyleNoTTY, []string{"func main()"}},
		{"theme style", "# Title\n\nBody", ThemeEcho, []string{"Title", "Body"}},
		{"glamour standard style", "Body text", StyleDark, []string{"Body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Markdown(tt.input, DefaultOptions().WithStyle(tt.style))
			if err != nil {
				t.Fatalf("Markdown() returned error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}
}

func TestMarkdownWithWidth(t *testing.T) {
	long := strings.Repeat("word ", 40)
	out, err := MarkdownWithWidth(long, 30)
	if err != nil {
		t.Fatalf("MarkdownWithWidth() returned error: %v", err)
	}
	if !strings.Contains(out, "\n") {
		t.Error("expected long text to wrap")
	}
}

func TestReply(t *testing.T) {
	out := Reply("Paris is the capital.", DefaultOptions().WithStyle(StyleNoTTY))
	if !strings.Contains(out, "Paris is the capital.") {
		t.Errorf("Reply() = %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("Reply() kept surrounding newlines: %q", out)
	}

	// an unreadable style file falls back to the raw text
	raw := "keep me"
	if got := Reply(raw, DefaultOptions().WithStyle("/nonexistent/style.json")); got != raw {
		t.Errorf("Reply() with bad style = %q, want %q", got, raw)
	}
}
