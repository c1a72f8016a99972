package editor

import (
	"fmt"
	"path/filepath"
)

// Registry is the ordered list of open sessions and the single source of
// truth for which buffer and file sit at each tab position. It is pure data
// management with no UI dependency and is not safe for concurrent use; the
// caller confines it to one goroutine.
type Registry struct {
	sessions []*Session
	active   int // index of active tab, or -1 if none
	nextID   uint64
}

// NewRegistry creates a Registry with no open sessions.
func NewRegistry() *Registry {
	return &Registry{
		active: -1,
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// ActivePosition returns the active tab's position, or false if there are
// no open sessions.
func (r *Registry) ActivePosition() (int, bool) {
	if r.active < 0 || r.active >= len(r.sessions) {
		return 0, false
	}
	return r.active, true
}

// Active returns the active session, or nil if there are none.
func (r *Registry) Active() *Session {
	pos, ok := r.ActivePosition()
	if !ok {
		return nil
	}
	return r.sessions[pos]
}

// Create appends a new session holding content, marks it active and returns
// its position. An empty filePath makes an untitled session.
func (r *Registry) Create(content, filePath string) int {
	r.nextID++
	s := &Session{
		id:       r.nextID,
		position: len(r.sessions),
		buffer:   NewBuffer(content, filePath),
	}
	r.sessions = append(r.sessions, s)
	r.active = s.position
	return s.position
}

// SessionAt returns the session at position.
func (r *Registry) SessionAt(position int) (*Session, error) {
	if position < 0 || position >= len(r.sessions) {
		return nil, &IndexError{Position: position, Len: len(r.sessions)}
	}
	return r.sessions[position], nil
}

// BufferAt returns the buffer of the session at position.
func (r *Registry) BufferAt(position int) (*Buffer, error) {
	s, err := r.SessionAt(position)
	if err != nil {
		return nil, err
	}
	return s.buffer, nil
}

// FilePathAt returns the file of the session at position; ok is false for
// an untitled session.
func (r *Registry) FilePathAt(position int) (path string, ok bool, err error) {
	s, err := r.SessionAt(position)
	if err != nil {
		return "", false, err
	}
	path, ok = s.FilePath()
	return path, ok, nil
}

// Sessions returns the open sessions in tab order. The slice is a copy.
func (r *Registry) Sessions() []*Session {
	return append([]*Session(nil), r.sessions...)
}

// Lookup finds a live session by ID. Asynchronous work that captured a
// session must call this before touching it again.
func (r *Registry) Lookup(id uint64) (*Session, bool) {
	for _, s := range r.sessions {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// FindByPath returns the position of the session bound to path.
func (r *Registry) FindByPath(path string) (int, bool) {
	if path == "" {
		return 0, false
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	for i, s := range r.sessions {
		if s.buffer.Path() == path {
			return i, true
		}
	}
	return 0, false
}

// SetActive switches the active tab to position.
func (r *Registry) SetActive(position int) error {
	if position < 0 || position >= len(r.sessions) {
		return &IndexError{Position: position, Len: len(r.sessions)}
	}
	r.active = position
	return nil
}

// Close removes the session at position. Every later session moves down one
// slot; earlier sessions keep theirs. After removal the active index is
// adjusted:
//   - If the closed tab was before the active tab, active shifts down by one
//     so the same session stays active.
//   - If the closed tab was the active tab, the session now in the same slot
//     becomes active, clamped to the last valid index.
//   - If no sessions remain, there is no active tab.
func (r *Registry) Close(position int) error {
	if position < 0 || position >= len(r.sessions) {
		return &IndexError{Position: position, Len: len(r.sessions)}
	}

	r.sessions = append(r.sessions[:position], r.sessions[position+1:]...)
	r.renumber(position)

	if len(r.sessions) == 0 {
		r.active = -1
		return nil
	}

	if position < r.active {
		r.active--
	} else if position == r.active && r.active >= len(r.sessions) {
		r.active = len(r.sessions) - 1
	}
	return nil
}

// Move relocates the session at from to slot to, shifting the sessions in
// between by one. The active session stays the same session.
func (r *Registry) Move(from, to int) error {
	n := len(r.sessions)
	if from < 0 || from >= n {
		return &IndexError{Position: from, Len: n}
	}
	if to < 0 || to >= n {
		return &IndexError{Position: to, Len: n}
	}
	if from == to {
		return nil
	}
	activeID := r.activeID()

	s := r.sessions[from]
	r.sessions = append(r.sessions[:from], r.sessions[from+1:]...)
	r.sessions = append(r.sessions[:to], append([]*Session{s}, r.sessions[to:]...)...)

	r.renumber(min(from, to))
	r.restoreActive(activeID)
	return nil
}

// Reorder resynchronises positions to the UI's authoritative tab order,
// given as session IDs from first tab to last. The order must name every
// live session exactly once; otherwise nothing changes.
func (r *Registry) Reorder(order []uint64) error {
	if len(order) != len(r.sessions) {
		return fmt.Errorf("%w: got %d ids for %d sessions", ErrOrderMismatch, len(order), len(r.sessions))
	}
	byID := make(map[uint64]*Session, len(r.sessions))
	for _, s := range r.sessions {
		byID[s.id] = s
	}
	next := make([]*Session, 0, len(order))
	for _, id := range order {
		s, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or repeated id %d", ErrOrderMismatch, id)
		}
		delete(byID, id)
		next = append(next, s)
	}

	activeID := r.activeID()
	r.sessions = next
	r.renumber(0)
	r.restoreActive(activeID)
	return nil
}

// Check verifies that positions form the contiguous range 0..N-1 in slice
// order and that the active index is valid.
func (r *Registry) Check() error {
	for i, s := range r.sessions {
		if s.position != i {
			return fmt.Errorf("session %d at slot %d reports position %d", s.id, i, s.position)
		}
	}
	if len(r.sessions) == 0 && r.active != -1 {
		return fmt.Errorf("active %d with no sessions", r.active)
	}
	if len(r.sessions) > 0 && (r.active < 0 || r.active >= len(r.sessions)) {
		return fmt.Errorf("active %d out of range [0,%d)", r.active, len(r.sessions))
	}
	return nil
}

// renumber rewrites positions from slot start onward.
func (r *Registry) renumber(start int) {
	for i := start; i < len(r.sessions); i++ {
		r.sessions[i].position = i
	}
}

func (r *Registry) activeID() uint64 {
	if s := r.Active(); s != nil {
		return s.id
	}
	return 0
}

func (r *Registry) restoreActive(id uint64) {
	if s, ok := r.Lookup(id); ok {
		r.active = s.position
	}
}
