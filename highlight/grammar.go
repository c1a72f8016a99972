package highlight

import (
	"path/filepath"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
)

// DefaultTheme is used when no theme or an unknown theme is configured.
const DefaultTheme = "monokai"

// lexerNames maps loader language ids to chroma lexer names.
var lexerNames = map[string]string{
	"rust":       "rust",
	"c":          "c",
	"cplusplus":  "c++",
	"python":     "python",
	"javascript": "javascript",
	"typescript": "typescript",
	"java":       "java",
	"go":         "go",
	"csharp":     "c#",
}

// Lexer resolves the grammar for a tab. The language id wins; otherwise the
// file name is tried against go-enry's extension table and chroma's own
// filename patterns. A miss is never an error: it yields the plain-text
// lexer.
func Lexer(lang, filename string) chroma.Lexer {
	if name, ok := lexerNames[lang]; ok {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	if filename != "" {
		base := filepath.Base(filename)
		if name, _ := enry.GetLanguageByExtension(base); name != "" {
			if l := lexers.Get(name); l != nil {
				return l
			}
		}
		if l := lexers.Match(base); l != nil {
			return l
		}
	}
	return lexers.Fallback
}

// Theme resolves a chroma style by name, falling back to DefaultTheme.
func Theme(name string) *chroma.Style {
	if name == "" {
		name = DefaultTheme
	}
	if s, ok := styles.Registry[name]; ok {
		return s
	}
	return styles.Get(DefaultTheme)
}
