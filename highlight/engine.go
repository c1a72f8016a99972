package highlight

import (
	"github.com/alecthomas/chroma/v2"
)

// Engine tokenises a whole document. Lines returns the tokens of every
// physical line in order, each line including its terminator.
type Engine interface {
	Lines(text string) ([][]Token, error)
}

// ChromaEngine is the Engine backed by a chroma lexer and style.
type ChromaEngine struct {
	lexer chroma.Lexer
	style *chroma.Style
	base  chroma.Colour
}

// NewChromaEngine returns an engine for lexer rendered with style. A nil
// lexer selects plain text and a nil style selects DefaultTheme.
func NewChromaEngine(lexer chroma.Lexer, style *chroma.Style) *ChromaEngine {
	if lexer == nil {
		lexer = Lexer("", "")
	}
	if style == nil {
		style = Theme("")
	}
	return &ChromaEngine{
		lexer: chroma.Coalesce(lexer),
		style: style,
		base:  style.Get(chroma.Text).Colour,
	}
}

// Name returns the lexer's name.
func (e *ChromaEngine) Name() string {
	return e.lexer.Config().Name
}

// Lines implements Engine.
func (e *ChromaEngine) Lines(text string) ([][]Token, error) {
	// Default options would rewrite CRLF to LF and shift every offset.
	it, err := e.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil, err
	}
	split := chroma.SplitTokensIntoLines(it.Tokens())

	lines := make([][]Token, 0, len(split))
	for _, line := range split {
		out := make([]Token, 0, len(line))
		for _, tok := range line {
			if tok.Value == "" {
				continue
			}
			out = append(out, Token{Text: tok.Value, Style: e.resolve(tok.Type)})
		}
		lines = append(lines, out)
	}
	return lines, nil
}

// BaseStyle is the style of untokenised text.
func (e *ChromaEngine) BaseStyle() Style {
	return Style{Color: e.colour(e.base)}
}

func (e *ChromaEngine) resolve(t chroma.TokenType) Style {
	entry := e.style.Get(t)
	c := entry.Colour
	if !c.IsSet() {
		c = e.base
	}
	return Style{
		Color:  e.colour(c),
		Bold:   entry.Bold == chroma.Yes,
		Italic: entry.Italic == chroma.Yes,
	}
}

func (e *ChromaEngine) colour(c chroma.Colour) RGB {
	if !c.IsSet() {
		return defaultForeground
	}
	return rgbFromChroma(c)
}
