package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewBufferUntitled(t *testing.T) {
	b := NewBuffer("", "")
	if b == nil {
		t.Fatal("NewBuffer returned nil")
	}
	if b.Text() != "" {
		t.Errorf("new buffer text = %q, want empty", b.Text())
	}
	if b.Path() != "" {
		t.Errorf("new buffer path = %q, want empty", b.Path())
	}
	if b.Dirty() {
		t.Error("new buffer should not be dirty")
	}
	if !b.Untitled() {
		t.Error("new buffer should be untitled")
	}
	if b.Tags() == nil {
		t.Error("new buffer should have a tag table")
	}
}

func TestNewBufferAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")

	b := NewBuffer("hello", path)
	if !filepath.IsAbs(b.Path()) {
		t.Errorf("path %q is not absolute", b.Path())
	}
	if b.Dirty() {
		t.Error("buffer should not be dirty after construction")
	}
}

func TestSetTextMakesDirty(t *testing.T) {
	b := NewBuffer("original", "")
	b.SetText("modified")
	if !b.Dirty() {
		t.Error("buffer should be dirty after SetText with different content")
	}
	if b.Text() != "modified" {
		t.Errorf("text = %q, want %q", b.Text(), "modified")
	}

	// Setting the text back to the original is no longer dirty.
	b.SetText("original")
	if b.Dirty() {
		t.Error("buffer should not be dirty after restoring original text")
	}
}

func TestSaveAsWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	b := NewBuffer("", "")
	b.SetText("saved content")
	if err := b.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "saved content" {
		t.Errorf("file content = %q, want %q", string(data), "saved content")
	}
	if b.Dirty() {
		t.Error("buffer should not be dirty after SaveAs")
	}
	if b.Untitled() {
		t.Error("buffer should not be untitled after SaveAs")
	}
}

func TestSaveOverwritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overwrite.txt")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	b := NewBuffer("old", path)
	b.SetText("new")
	if err := b.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("file content = %q, want %q", string(data), "new")
	}
}

func TestSaveUntitledBufferErrors(t *testing.T) {
	b := NewBuffer("", "")
	b.SetText("some text")
	if err := b.Save(); !errors.Is(err, ErrNoPath) {
		t.Errorf("Save on untitled buffer err = %v, want ErrNoPath", err)
	}
}

func TestBufferUndoRedo(t *testing.T) {
	b := NewBuffer("hello", "")

	b.ApplyEdit(5, "", " world")
	if b.Text() != "hello world" {
		t.Fatalf("after edit: %q", b.Text())
	}

	if !b.Undo() {
		t.Fatal("Undo returned false")
	}
	if b.Text() != "hello" {
		t.Errorf("after undo: %q, want %q", b.Text(), "hello")
	}

	if !b.Redo() {
		t.Fatal("Redo returned false")
	}
	if b.Text() != "hello world" {
		t.Errorf("after redo: %q, want %q", b.Text(), "hello world")
	}

	b.Undo()
	b.Undo()
	if b.Undo() {
		t.Error("Undo on empty stack should return false")
	}
}

func TestBufferChangeListeners(t *testing.T) {
	b := NewBuffer("abc", "")
	var got []string
	b.OnChange(func(text string) { got = append(got, text) })

	b.SetText("abcd")
	b.SetText("abcd") // unchanged, no event
	b.Undo()
	b.Redo()

	want := []string{"abcd", "abc", "abcd"}
	if len(got) != len(want) {
		t.Fatalf("events = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}
