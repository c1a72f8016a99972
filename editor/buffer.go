package editor

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoPath is returned by Save when the buffer is untitled.
var ErrNoPath = errors.New("buffer has no path; use SaveAs")

// editOp records a single edit for undo/redo support.
type editOp struct {
	offset  int
	oldText string
	newText string
}

// ChangeFunc is called with the full buffer text after every mutation.
type ChangeFunc func(text string)

// Buffer manages the text content of a single open tab.
type Buffer struct {
	path      string // absolute path, or "" if untitled
	text      string // current text content
	savedText string // text at last save/open (for dirty comparison)
	undoStack []editOp
	redoStack []editOp
	listeners []ChangeFunc
	tags      *TagTable
	owner     any // highlighter bound to this buffer
}

// NewBuffer creates a buffer holding text. An empty path makes it untitled;
// a non-empty path is converted to an absolute path when possible.
func NewBuffer(text, path string) *Buffer {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return &Buffer{
		path:      path,
		text:      text,
		savedText: text,
		tags:      NewTagTable(),
	}
}

// Save writes the current text to the stored path.
// Returns ErrNoPath if the buffer is untitled.
func (b *Buffer) Save() error {
	if b.path == "" {
		return ErrNoPath
	}
	if err := os.WriteFile(b.path, []byte(b.text), 0644); err != nil {
		return err
	}
	b.savedText = b.text
	return nil
}

// SaveAs writes the current text to the given path, updates the stored path,
// and marks the buffer as clean.
func (b *Buffer) SaveAs(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(absPath, []byte(b.text), 0644); err != nil {
		return err
	}

	b.path = absPath
	b.savedText = b.text
	return nil
}

// Path returns the absolute file path, or "" if the buffer is untitled.
func (b *Buffer) Path() string {
	return b.path
}

// Text returns the current text content of the buffer.
func (b *Buffer) Text() string {
	return b.text
}

// Tags returns the buffer's tag table.
func (b *Buffer) Tags() *TagTable {
	return b.tags
}

// Claim records owner as the buffer's only highlighter. It reports false if
// a different owner already holds the buffer.
func (b *Buffer) Claim(owner any) bool {
	if b.owner != nil && b.owner != owner {
		return false
	}
	b.owner = owner
	return true
}

// OnChange registers fn to be called after every text mutation.
func (b *Buffer) OnChange(fn ChangeFunc) {
	b.listeners = append(b.listeners, fn)
}

// SetText replaces the whole text as a single undoable edit. Setting the
// text it already holds is a no-op and fires no change event.
func (b *Buffer) SetText(text string) {
	if text == b.text {
		return
	}
	b.ApplyEdit(0, b.text, text)
}

// Dirty reports whether the buffer's text differs from the last saved/opened text.
func (b *Buffer) Dirty() bool {
	return b.text != b.savedText
}

// Untitled reports whether the buffer has no associated file path.
func (b *Buffer) Untitled() bool {
	return b.path == ""
}

// ApplyEdit records the edit on the undo stack, clears the redo stack,
// and applies the edit to the buffer text. The edit replaces the text at
// [offset, offset+len(oldText)) with newText.
func (b *Buffer) ApplyEdit(offset int, oldText, newText string) {
	b.undoStack = append(b.undoStack, editOp{
		offset:  offset,
		oldText: oldText,
		newText: newText,
	})
	b.redoStack = nil
	b.text = b.text[:offset] + newText + b.text[offset+len(oldText):]
	b.changed()
}

// Undo reverses the last edit. Returns true if an edit was undone, false if
// the undo stack is empty.
func (b *Buffer) Undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}
	op := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.text = b.text[:op.offset] + op.oldText + b.text[op.offset+len(op.newText):]
	b.redoStack = append(b.redoStack, op)
	b.changed()
	return true
}

// Redo reapplies the last undone edit. Returns true if an edit was redone,
// false if the redo stack is empty.
func (b *Buffer) Redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}
	op := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.text = b.text[:op.offset] + op.newText + b.text[op.offset+len(op.oldText):]
	b.undoStack = append(b.undoStack, op)
	b.changed()
	return true
}

func (b *Buffer) changed() {
	for _, fn := range b.listeners {
		fn(b.text)
	}
}
