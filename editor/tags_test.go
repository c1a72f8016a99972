package editor

import "testing"

func TestTagTableCreate(t *testing.T) {
	tt := NewTagTable()
	a := tt.Create(TagAttrs{Foreground: "#ff0000", Bold: true})
	b := tt.Create(TagAttrs{Foreground: "#00ff00"})
	if a == b {
		t.Fatal("Create returned the same handle twice")
	}
	if tt.Len() != 2 {
		t.Errorf("Len = %d, want 2", tt.Len())
	}
	attrs, ok := tt.Attrs(a)
	if !ok || attrs.Foreground != "#ff0000" || !attrs.Bold {
		t.Errorf("Attrs(a) = (%+v, %v)", attrs, ok)
	}
	if _, ok := tt.Attrs(TagID(7)); ok {
		t.Error("Attrs on unknown handle should report false")
	}
}

func TestTagTableRemoveSplits(t *testing.T) {
	tt := NewTagTable()
	red := tt.Create(TagAttrs{Foreground: "#ff0000"})
	blue := tt.Create(TagAttrs{Foreground: "#0000ff"})

	tt.Apply(red, 0, 10)
	tt.Apply(blue, 0, 10)
	tt.Remove(red, 3, 6)

	spans := tt.Spans()
	var redSpans []TagSpan
	for _, s := range spans {
		if s.Tag == red {
			redSpans = append(redSpans, s)
		}
	}
	if len(redSpans) != 2 {
		t.Fatalf("red spans = %+v, want two pieces", redSpans)
	}
	if redSpans[0] != (TagSpan{Tag: red, Start: 0, End: 3}) || redSpans[1] != (TagSpan{Tag: red, Start: 6, End: 10}) {
		t.Errorf("red spans = %+v", redSpans)
	}
	var blueSpans []TagSpan
	for _, s := range spans {
		if s.Tag == blue {
			blueSpans = append(blueSpans, s)
		}
	}
	if len(blueSpans) != 1 || blueSpans[0] != (TagSpan{Tag: blue, Start: 0, End: 10}) {
		t.Errorf("blue spans = %+v, want untouched [0,10)", blueSpans)
	}
}

func TestTagTableRemoveAll(t *testing.T) {
	tt := NewTagTable()
	red := tt.Create(TagAttrs{Foreground: "#ff0000"})
	tt.Apply(red, 0, 4)
	tt.Apply(red, 4, 8)
	tt.Apply(red, 5, 5) // empty, ignored

	tt.RemoveAll(0, 100)
	if spans := tt.Spans(); len(spans) != 0 {
		t.Errorf("spans after RemoveAll = %+v, want none", spans)
	}
	if tt.Len() != 1 {
		t.Errorf("Len = %d after RemoveAll, want tags kept", tt.Len())
	}
}
