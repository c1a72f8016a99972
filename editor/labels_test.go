package editor

import (
	"path/filepath"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestLabels(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()
	r.Create("", "")
	r.Create("x", filepath.Join(dir, "main.rs"))
	buf, _ := r.BufferAt(1)
	buf.SetText("y")
	if err := r.SetActive(0); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	labels := r.Labels(0)
	if len(labels) != 2 {
		t.Fatalf("len(labels) = %d, want 2", len(labels))
	}
	if labels[0].Title != UntitledTitle || !labels[0].Active {
		t.Errorf("labels[0] = %+v", labels[0])
	}
	if labels[1].Title != "main.rs*" || !labels[1].Dirty || labels[1].Active {
		t.Errorf("labels[1] = %+v", labels[1])
	}
	if labels[1].Position != 1 {
		t.Errorf("labels[1].Position = %d, want 1", labels[1].Position)
	}
}

func TestLabelsTruncate(t *testing.T) {
	r := NewRegistry()
	r.Create("", "/tmp/a_really_long_file_name.go")

	labels := r.Labels(8)
	if got := labels[0].Title; got != "a_reall…" {
		t.Errorf("Title = %q, want %q", got, "a_reall…")
	}
}

func TestLabelsTruncateKeepsDirtyMarker(t *testing.T) {
	r := NewRegistry()
	r.Create("", "/tmp/a_rather_long_file_name.go")
	buf, _ := r.BufferAt(0)
	buf.SetText("edited")

	tests := []struct {
		width int
		want  string
	}{
		{8, "a_rath…*"},
		{0, "a_rather_long_file_name.go*"},
		{40, "a_rather_long_file_name.go*"},
	}
	for _, tt := range tests {
		got := r.Labels(tt.width)[0].Title
		if got != tt.want {
			t.Errorf("Labels(%d) title = %q, want %q", tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("Labels(%d) title %q is %d cells wide", tt.width, got, runewidth.StringWidth(got))
		}
	}
}
