package editor

import "github.com/mattn/go-runewidth"

// TabLabel holds display data for a single tab.
type TabLabel struct {
	ID       uint64 `json:"id"`
	Position int    `json:"position"`
	Title    string `json:"title"`
	Path     string `json:"path,omitempty"`
	Icon     string `json:"icon"`
	Language string `json:"language,omitempty"`
	Dirty    bool   `json:"dirty"`
	Active   bool   `json:"active"`
}

// Labels returns one label per open tab in tab order. Titles wider than
// maxWidth display cells are truncated with an ellipsis; maxWidth <= 0
// disables truncation. Dirty tabs get a trailing "*", counted in maxWidth.
func (r *Registry) Labels(maxWidth int) []TabLabel {
	active, _ := r.ActivePosition()
	out := make([]TabLabel, 0, len(r.sessions))
	for i, s := range r.sessions {
		buf := s.Buffer()
		title := s.Title()
		if buf.Dirty() {
			// The marker survives truncation.
			if maxWidth > 0 {
				title = runewidth.Truncate(title, max(maxWidth-1, 0), "…")
			}
			title += "*"
		} else if maxWidth > 0 {
			title = runewidth.Truncate(title, maxWidth, "…")
		}
		out = append(out, TabLabel{
			ID:       s.id,
			Position: s.position,
			Title:    title,
			Path:     buf.Path(),
			Icon:     s.icon,
			Language: s.language,
			Dirty:    buf.Dirty(),
			Active:   i == active && len(r.sessions) > 0,
		})
	}
	return out
}
