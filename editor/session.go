package editor

import "path/filepath"

// UntitledTitle is the display title of a tab with no file.
const UntitledTitle = "Untitled"

// Session is one open tab: its buffer, optional file and display metadata.
// Position is owned by the Registry and only changes through it.
type Session struct {
	id       uint64
	position int
	buffer   *Buffer
	icon     string
	language string
}

// ID returns an identifier that stays stable for the session's lifetime.
// It is only meant for liveness checks; tabs are addressed by position.
func (s *Session) ID() uint64 {
	return s.id
}

// Position returns the tab's current ordinal slot.
func (s *Session) Position() int {
	return s.position
}

// Buffer returns the buffer the session owns.
func (s *Session) Buffer() *Buffer {
	return s.buffer
}

// FilePath returns the session's file, if any.
func (s *Session) FilePath() (string, bool) {
	p := s.buffer.Path()
	return p, p != ""
}

// Title returns the file name, or UntitledTitle for a tab with no file.
func (s *Session) Title() string {
	if p, ok := s.FilePath(); ok {
		return filepath.Base(p)
	}
	return UntitledTitle
}

// Icon returns the icon resource reference shown on the tab.
func (s *Session) Icon() string {
	return s.icon
}

// SetIcon replaces the tab's icon reference.
func (s *Session) SetIcon(icon string) {
	s.icon = icon
}

// Language returns the language id detected for the session's file, or "".
func (s *Session) Language() string {
	return s.language
}

// SetLanguage records the detected language id.
func (s *Session) SetLanguage(lang string) {
	s.language = lang
}
