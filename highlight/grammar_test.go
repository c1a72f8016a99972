package highlight

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2/lexers"
)

func TestLexerByLanguage(t *testing.T) {
	cases := []struct {
		lang string
		want string
	}{
		{"rust", "rust"},
		{"python", "python"},
		{"go", "go"},
		{"cplusplus", "c++"},
		{"csharp", "c#"},
	}
	for _, tc := range cases {
		l := Lexer(tc.lang, "")
		if got := strings.ToLower(l.Config().Name); got != tc.want {
			t.Errorf("Lexer(%q) = %q, want %q", tc.lang, got, tc.want)
		}
	}
}

func TestLexerByFilename(t *testing.T) {
	// Not in the language table; resolved through the extension lookup.
	l := Lexer("", "script.rb")
	if got := strings.ToLower(l.Config().Name); got != "ruby" {
		t.Errorf("Lexer(\"\", \"script.rb\") = %q, want ruby", got)
	}
}

func TestLexerFallback(t *testing.T) {
	if l := Lexer("", ""); l != lexers.Fallback {
		t.Errorf("Lexer with nothing = %q, want fallback", l.Config().Name)
	}
	if l := Lexer("klingon", "file.zzzz"); l != lexers.Fallback {
		t.Errorf("unknown language = %q, want fallback", l.Config().Name)
	}
}

func TestThemeFallback(t *testing.T) {
	if Theme("no-such-theme") != Theme(DefaultTheme) {
		t.Error("unknown theme should resolve to the default")
	}
	if Theme("") == nil {
		t.Error("Theme(\"\") returned nil")
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{R: 0x66, G: 0xd9, B: 0xef}).Hex(); got != "#66d9ef" {
		t.Errorf("Hex = %q, want #66d9ef", got)
	}
}
