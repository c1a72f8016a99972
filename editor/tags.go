package editor

import "sort"

// TagID is an opaque handle to a tag in a TagTable.
type TagID int

// TagAttrs are the visual attributes a tag carries.
type TagAttrs struct {
	Foreground string // "#rrggbb"
	Bold       bool
	Italic     bool
}

// TagSpan is a tag applied over the rune range [Start, End).
type TagSpan struct {
	Tag   TagID
	Start int
	End   int // exclusive
}

// TagTable holds the tags defined for one buffer and the ranges they are
// applied to. Tags are never deleted once created.
type TagTable struct {
	attrs []TagAttrs
	spans []TagSpan
}

// NewTagTable returns an empty table.
func NewTagTable() *TagTable {
	return &TagTable{}
}

// Create defines a new tag and returns its handle.
func (t *TagTable) Create(attrs TagAttrs) TagID {
	t.attrs = append(t.attrs, attrs)
	return TagID(len(t.attrs) - 1)
}

// Attrs returns the attributes of id.
func (t *TagTable) Attrs(id TagID) (TagAttrs, bool) {
	if id < 0 || int(id) >= len(t.attrs) {
		return TagAttrs{}, false
	}
	return t.attrs[id], true
}

// Len returns the number of defined tags.
func (t *TagTable) Len() int {
	return len(t.attrs)
}

// Apply tags the range [start, end). Empty ranges are ignored.
func (t *TagTable) Apply(id TagID, start, end int) {
	if end <= start {
		return
	}
	t.spans = append(t.spans, TagSpan{Tag: id, Start: start, End: end})
}

// Remove strips id from [start, end), trimming or splitting spans that
// straddle the range boundaries.
func (t *TagTable) Remove(id TagID, start, end int) {
	t.remove(func(s TagSpan) bool { return s.Tag == id }, start, end)
}

// RemoveAll strips every tag from [start, end).
func (t *TagTable) RemoveAll(start, end int) {
	t.remove(func(TagSpan) bool { return true }, start, end)
}

func (t *TagTable) remove(match func(TagSpan) bool, start, end int) {
	if end <= start {
		return
	}
	var kept []TagSpan
	for _, s := range t.spans {
		if !match(s) || s.End <= start || s.Start >= end {
			kept = append(kept, s)
			continue
		}
		if s.Start < start {
			kept = append(kept, TagSpan{Tag: s.Tag, Start: s.Start, End: start})
		}
		if s.End > end {
			kept = append(kept, TagSpan{Tag: s.Tag, Start: end, End: s.End})
		}
	}
	t.spans = kept
}

// Spans returns the applied spans ordered by start offset.
func (t *TagTable) Spans() []TagSpan {
	out := append([]TagSpan(nil), t.spans...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
