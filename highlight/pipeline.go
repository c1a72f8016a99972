package highlight

import (
	"errors"
	"math"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/a4-editor/a4/editor"
)

// ErrAlreadyBound is returned when a buffer already has a pipeline.
var ErrAlreadyBound = errors.New("buffer already has a highlighter")

// Pipeline re-derives a buffer's styling from its text. Each pass rescans
// the whole document from the start because the lexer carries state from
// one line to the next; that bounds the document sizes it is fit for.
type Pipeline struct {
	buffer *editor.Buffer
	engine Engine
	base   Style
	cache  *TagCache
	log    *zap.Logger

	primed   bool
	lastText string
	lastRuns []StyleRun
}

// Bind creates the pipeline for buf. A buffer can be bound once.
func Bind(buf *editor.Buffer, engine Engine, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		buffer: buf,
		engine: engine,
		base:   Style{Color: defaultForeground},
		cache:  NewTagCache(buf.Tags()),
		log:    log,
	}
	if b, ok := engine.(interface{ BaseStyle() Style }); ok {
		p.base = b.BaseStyle()
	}
	if !buf.Claim(p) {
		return nil, ErrAlreadyBound
	}
	return p, nil
}

// Buffer returns the bound buffer.
func (p *Pipeline) Buffer() *editor.Buffer {
	return p.buffer
}

// Cache returns the pipeline's tag cache.
func (p *Pipeline) Cache() *TagCache {
	return p.cache
}

// Runs tokenises text and returns its style runs in ascending order.
// Adjacent tokens with the same style are merged, so runs are contiguous and
// cover [0, rune length of text). Empty text has no runs. A tokeniser
// failure degrades to a single unstyled run.
func (p *Pipeline) Runs(text string) []StyleRun {
	if p.primed && text == p.lastText {
		return p.lastRuns
	}
	runs := p.scan(text)
	p.primed = true
	p.lastText = text
	p.lastRuns = runs
	return runs
}

func (p *Pipeline) scan(text string) []StyleRun {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return nil
	}

	lines, err := p.engine.Lines(text)
	if err != nil {
		p.log.Warn("tokenise failed; leaving text unstyled", zap.Error(err))
		return []StyleRun{{Start: 0, Length: total, Style: p.base}}
	}

	var runs []StyleRun
	offset := 0
	for _, line := range lines {
		for _, tok := range line {
			if offset >= total {
				break
			}
			n := utf8.RuneCountInString(tok.Text)
			// Some lexers append a newline the text does not have.
			if offset+n > total {
				n = total - offset
			}
			if n == 0 {
				continue
			}
			if last := len(runs) - 1; last >= 0 && runs[last].Style == tok.Style {
				runs[last].Length += n
			} else {
				runs = append(runs, StyleRun{Start: offset, Length: n, Style: tok.Style})
			}
			offset += n
		}
	}
	if offset < total {
		runs = append(runs, StyleRun{Start: offset, Length: total - offset, Style: p.base})
	}
	return runs
}

// Apply replaces this pipeline's tags on the buffer with runs. Tags from an
// earlier pass are cleared first so nothing stale survives a shortening edit.
func (p *Pipeline) Apply(runs []StyleRun) {
	table := p.buffer.Tags()
	for _, id := range p.cache.IDs() {
		table.Remove(id, 0, math.MaxInt)
	}
	for _, r := range runs {
		table.Apply(p.cache.Tag(r.Style), r.Start, r.End())
	}
}

// OnTextChanged is the per-mutation entry point: it derives runs for text
// and applies them to the buffer.
func (p *Pipeline) OnTextChanged(text string) []StyleRun {
	runs := p.Runs(text)
	p.Apply(runs)
	return runs
}

// Refresh highlights the buffer's current text.
func (p *Pipeline) Refresh() []StyleRun {
	return p.OnTextChanged(p.buffer.Text())
}

// SetEngine swaps the tokeniser, for example after a save gives an untitled
// buffer a file extension. The next pass rescans.
func (p *Pipeline) SetEngine(engine Engine) {
	p.engine = engine
	if b, ok := engine.(interface{ BaseStyle() Style }); ok {
		p.base = b.BaseStyle()
	}
	p.primed = false
	p.lastRuns = nil
}
