package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alecthomas/chroma/v2"
	"go.uber.org/zap"

	"github.com/a4-editor/a4/commands"
	"github.com/a4-editor/a4/editor"
	"github.com/a4-editor/a4/highlight"
	"github.com/a4-editor/a4/loader"
	"github.com/a4-editor/a4/store"
)

// ErrUnavailable is returned when the workspace goroutine has stopped or did
// not answer within callTimeout.
var ErrUnavailable = errors.New("workspace unavailable")

// callTimeout is the maximum time call() waits for the workspace goroutine.
const callTimeout = 5 * time.Second

// labelWidth is the display width tab titles are truncated to.
const labelWidth = 24

// Notifier receives asynchronous events: "tabs" after the tab list changes,
// "highlight" after a buffer is re-styled and "notify" for messages the user
// should see without being blocked.
type Notifier interface {
	Notify(method string, params any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, any) {}

// Message is the payload of a "notify" event.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// HighlightEvent is the payload of a "highlight" event.
type HighlightEvent struct {
	ID       uint64               `json:"id"`
	Position int                  `json:"position"`
	Runs     []highlight.StyleRun `json:"runs"`
}

// WorkspaceOptions configures a Workspace. Icons and Store are optional.
type WorkspaceOptions struct {
	Icons    *loader.Icons
	Store    *store.Store
	Theme    *chroma.Style
	Debounce time.Duration
	Notifier Notifier
	Log      *zap.Logger
}

// tabState is the per-session highlighting state.
type tabState struct {
	pipeline *highlight.Pipeline
	sched    *highlight.Scheduler
}

// Workspace owns the session registry and every buffer. All of that state
// is touched only by the run() goroutine; other goroutines reach it through
// call() and submit().
type Workspace struct {
	ctx     context.Context
	cmdCh   chan func()
	done    chan struct{}
	log     *zap.Logger
	timeout time.Duration

	// Owned by run(); do not access from other goroutines.
	reg      *editor.Registry
	tabs     map[uint64]*tabState
	icons    *loader.Icons
	store    *store.Store
	theme    *chroma.Style
	debounce time.Duration
	notifier Notifier
	folder   string
}

// NewWorkspace starts the workspace goroutine. It stops when ctx is done.
func NewWorkspace(ctx context.Context, opts WorkspaceOptions) *Workspace {
	ws := &Workspace{
		ctx:      ctx,
		cmdCh:    make(chan func()),
		done:     make(chan struct{}),
		log:      opts.Log,
		timeout:  callTimeout,
		reg:      editor.NewRegistry(),
		tabs:     make(map[uint64]*tabState),
		icons:    opts.Icons,
		store:    opts.Store,
		theme:    opts.Theme,
		debounce: opts.Debounce,
		notifier: opts.Notifier,
	}
	if ws.log == nil {
		ws.log = zap.NewNop()
	}
	if ws.theme == nil {
		ws.theme = highlight.Theme("")
	}
	if ws.notifier == nil {
		ws.notifier = nopNotifier{}
	}
	go ws.run()
	return ws
}

func (ws *Workspace) run() {
	defer close(ws.done)
	for {
		select {
		case fn := <-ws.cmdCh:
			fn()
		case <-ws.ctx.Done():
			for _, st := range ws.tabs {
				st.sched.Stop()
			}
			return
		}
	}
}

// Done is closed once the workspace goroutine has exited.
func (ws *Workspace) Done() <-chan struct{} {
	return ws.done
}

// submit enqueues fn to run on the workspace goroutine and returns
// immediately. fn is dropped if the workspace has stopped.
func (ws *Workspace) submit(fn func()) {
	go func() {
		select {
		case ws.cmdCh <- fn:
		case <-ws.done:
		}
	}()
}

// call enqueues fn and blocks until it has run. If the timeout expires
// before fn starts, fn is abandoned and never runs, so results it would
// have written stay untouched. Once fn has started, call waits for it.
func (ws *Workspace) call(fn func()) error {
	const (
		pending int32 = iota
		running
		abandoned
	)
	var state atomic.Int32
	ran := make(chan struct{})
	wrapped := func() {
		if !state.CompareAndSwap(pending, running) {
			return
		}
		fn()
		close(ran)
	}
	timeout := time.NewTimer(ws.timeout)
	defer timeout.Stop()

	select {
	case ws.cmdCh <- wrapped:
	case <-ws.done:
		return ErrUnavailable
	case <-timeout.C:
		ws.log.Warn("call timed out; workspace goroutine unresponsive")
		return ErrUnavailable
	}
	select {
	case <-ran:
		return nil
	case <-ws.done:
		if state.CompareAndSwap(pending, abandoned) {
			return ErrUnavailable
		}
		<-ran
		return nil
	case <-timeout.C:
		if state.CompareAndSwap(pending, abandoned) {
			ws.log.Warn("call timed out; workspace goroutine unresponsive")
			return ErrUnavailable
		}
		<-ran
		return nil
	}
}

// SetNotifier replaces the event sink.
func (ws *Workspace) SetNotifier(n Notifier) error {
	return ws.call(func() {
		if n == nil {
			n = nopNotifier{}
		}
		ws.notifier = n
	})
}

// NewTab opens an empty untitled tab and returns its position.
func (ws *Workspace) NewTab() (int, error) {
	var pos int
	err := ws.call(func() {
		pos = ws.create(loader.Content{})
		ws.changed()
	})
	return pos, err
}

// OpenFile opens path in a new tab, or activates the tab already showing it.
// A file that cannot be read still produces a tab: an empty untitled one.
// The *loader.ReadError is returned alongside that tab's position and also
// sent as a notification.
func (ws *Workspace) OpenFile(path string) (int, error) {
	var (
		pos     int
		readErr error
	)
	err := ws.call(func() {
		pos, readErr = ws.open(path)
		ws.changed()
	})
	if err != nil {
		return 0, err
	}
	return pos, readErr
}

// open must run on the workspace goroutine.
func (ws *Workspace) open(path string) (int, error) {
	if pos, ok := ws.reg.FindByPath(path); ok {
		if err := ws.reg.SetActive(pos); err != nil {
			ws.log.Error("registry out of sync", zap.Error(err))
		}
		return pos, nil
	}

	c, err := loader.LoadFile(path)
	if err != nil {
		ws.log.Info("open failed; creating untitled tab", zap.String("path", path), zap.Error(err))
		ws.notifier.Notify("notify", Message{Level: "error", Text: err.Error()})
		return ws.create(loader.Content{}), err
	}
	return ws.create(c), nil
}

// create adds a session for c and wires its highlighting.
func (ws *Workspace) create(c loader.Content) int {
	pos := ws.reg.Create(c.Text, c.Path)
	s, _ := ws.reg.SessionAt(pos)
	s.SetLanguage(c.Language)
	s.SetIcon(ws.fallbackIcon())

	engine := highlight.NewChromaEngine(highlight.Lexer(c.Language, c.Path), ws.theme)
	p, err := highlight.Bind(s.Buffer(), engine, ws.log.With(zap.Uint64("tab", s.ID())))
	ws.log.Debug("tab created", zap.Uint64("tab", s.ID()), zap.String("path", c.Path),
		zap.String("language", c.Language), zap.String("lexer", engine.Name()))
	if err != nil {
		// A fresh buffer cannot already be bound.
		ws.log.Error("bind highlighter", zap.Error(err))
		return pos
	}
	st := &tabState{pipeline: p, sched: highlight.NewScheduler(ws.debounce)}
	ws.tabs[s.ID()] = st

	id := s.ID()
	s.Buffer().OnChange(func(string) {
		st.sched.Schedule(func() {
			ws.submit(func() { ws.rehighlight(id) })
		})
	})
	p.Refresh()

	if c.Language != "" {
		ws.acquireIcon(id, c.Language)
	}
	return pos
}

func (ws *Workspace) fallbackIcon() string {
	if ws.icons == nil {
		return loader.DefaultFallbackIcon
	}
	return ws.icons.Fallback()
}

// acquireIcon fetches an icon off the workspace goroutine and applies it
// only if the tab is still open when the fetch completes.
func (ws *Workspace) acquireIcon(id uint64, lang string) {
	if ws.icons == nil {
		return
	}
	icons := ws.icons
	go func() {
		icon := icons.Acquire(ws.ctx, lang)
		ws.submit(func() {
			s, ok := ws.reg.Lookup(id)
			if !ok {
				ws.log.Debug("discarding icon for closed tab", zap.Uint64("tab", id))
				return
			}
			if s.Language() != lang {
				ws.log.Debug("discarding icon for previous language", zap.Uint64("tab", id), zap.String("language", lang))
				return
			}
			s.SetIcon(icon)
			ws.notifyTabs()
		})
	}()
}

// rehighlight runs a debounced pass for the session id, if it still exists.
func (ws *Workspace) rehighlight(id uint64) {
	s, ok := ws.reg.Lookup(id)
	st, live := ws.tabs[id]
	if !ok || !live {
		return
	}
	runs := st.pipeline.Refresh()
	ws.notifier.Notify("highlight", HighlightEvent{ID: id, Position: s.Position(), Runs: runs})
	ws.notifyTabs()
}

// CloseTab closes the tab at position.
func (ws *Workspace) CloseTab(position int) error {
	return ws.do(func() error { return ws.closeAt(position) })
}

// CloseActive closes the active tab, if any.
func (ws *Workspace) CloseActive() error {
	return ws.do(func() error {
		pos, ok := ws.reg.ActivePosition()
		if !ok {
			return nil
		}
		return ws.closeAt(pos)
	})
}

func (ws *Workspace) closeAt(position int) error {
	s, err := ws.reg.SessionAt(position)
	if err != nil {
		return err
	}
	if err := ws.reg.Close(position); err != nil {
		return err
	}
	if st, ok := ws.tabs[s.ID()]; ok {
		st.sched.Stop()
		delete(ws.tabs, s.ID())
	}
	ws.changed()
	return nil
}

// MoveTab moves the tab at from to slot to.
func (ws *Workspace) MoveTab(from, to int) error {
	return ws.do(func() error {
		if err := ws.reg.Move(from, to); err != nil {
			return err
		}
		ws.changed()
		return nil
	})
}

// Activate makes the tab at position active.
func (ws *Workspace) Activate(position int) error {
	return ws.do(func() error {
		if err := ws.reg.SetActive(position); err != nil {
			return err
		}
		ws.changed()
		return nil
	})
}

// Edit replaces the text of the tab at position. Highlighting follows after
// the debounce delay.
func (ws *Workspace) Edit(position int, text string) error {
	return ws.do(func() error {
		buf, err := ws.reg.BufferAt(position)
		if err != nil {
			return err
		}
		buf.SetText(text)
		return nil
	})
}

// Undo reverts the last edit of the tab at position.
func (ws *Workspace) Undo(position int) (bool, error) {
	var undone bool
	err := ws.do(func() error {
		buf, err := ws.reg.BufferAt(position)
		if err != nil {
			return err
		}
		undone = buf.Undo()
		return nil
	})
	return undone, err
}

// Redo reapplies the last undone edit of the tab at position.
func (ws *Workspace) Redo(position int) (bool, error) {
	var redone bool
	err := ws.do(func() error {
		buf, err := ws.reg.BufferAt(position)
		if err != nil {
			return err
		}
		redone = buf.Redo()
		return nil
	})
	return redone, err
}

// Text returns the text of the tab at position.
func (ws *Workspace) Text(position int) (string, error) {
	var text string
	err := ws.do(func() error {
		buf, err := ws.reg.BufferAt(position)
		if err != nil {
			return err
		}
		text = buf.Text()
		return nil
	})
	return text, err
}

// Save writes the tab at position to its file.
func (ws *Workspace) Save(position int) error {
	return ws.do(func() error { return ws.saveAt(position) })
}

// SaveActive writes the active tab, if any, to its file.
func (ws *Workspace) SaveActive() error {
	return ws.do(func() error {
		pos, ok := ws.reg.ActivePosition()
		if !ok {
			return nil
		}
		return ws.saveAt(pos)
	})
}

func (ws *Workspace) saveAt(position int) error {
	buf, err := ws.reg.BufferAt(position)
	if err != nil {
		return err
	}
	if err := buf.Save(); err != nil {
		return err
	}
	ws.notifyTabs()
	return nil
}

// SaveAs writes the tab at position to path and binds it to that file. The
// language, highlighter and icon follow the new file name. A path already
// open in another tab is refused with editor.ErrPathOpen.
func (ws *Workspace) SaveAs(position int, path string) error {
	return ws.do(func() error {
		s, err := ws.reg.SessionAt(position)
		if err != nil {
			return err
		}
		if other, ok := ws.reg.FindByPath(path); ok && other != position {
			return fmt.Errorf("%w: %s", editor.ErrPathOpen, path)
		}
		buf := s.Buffer()
		if err := buf.SaveAs(path); err != nil {
			return err
		}
		if lang, _ := loader.DetectLanguage(buf.Path()); lang != s.Language() {
			ws.setLanguage(s, lang)
		}
		ws.changed()
		return nil
	})
}

// setLanguage rebinds s to lang: highlighter, styling and icon. An empty
// lang selects plain text and the fallback icon.
func (ws *Workspace) setLanguage(s *editor.Session, lang string) {
	s.SetLanguage(lang)
	if st, ok := ws.tabs[s.ID()]; ok {
		lexer := highlight.Lexer(lang, s.Buffer().Path())
		if lang == "" {
			lexer = highlight.Lexer("", "")
		}
		st.pipeline.SetEngine(highlight.NewChromaEngine(lexer, ws.theme))
		runs := st.pipeline.Refresh()
		ws.notifier.Notify("highlight", HighlightEvent{ID: s.ID(), Position: s.Position(), Runs: runs})
	}
	if lang == "" {
		s.SetIcon(ws.fallbackIcon())
		return
	}
	ws.acquireIcon(s.ID(), lang)
}

// Reorder resynchronises tab positions to the UI's order of session IDs.
func (ws *Workspace) Reorder(ids []uint64) error {
	return ws.do(func() error {
		if err := ws.reg.Reorder(ids); err != nil {
			return err
		}
		ws.changed()
		return nil
	})
}

// Tabs returns the tab bar labels.
func (ws *Workspace) Tabs() ([]editor.TabLabel, error) {
	var labels []editor.TabLabel
	err := ws.call(func() { labels = ws.reg.Labels(labelWidth) })
	return labels, err
}

// Runs returns the current style runs of the tab at position, bringing them
// up to date with the buffer first.
func (ws *Workspace) Runs(position int) ([]highlight.StyleRun, error) {
	var runs []highlight.StyleRun
	err := ws.do(func() error {
		s, err := ws.reg.SessionAt(position)
		if err != nil {
			return err
		}
		st, ok := ws.tabs[s.ID()]
		if !ok {
			return nil
		}
		runs = st.pipeline.Refresh()
		return nil
	})
	return runs, err
}

// OpenFolder lists path for the file browser and remembers it as the
// workspace folder.
func (ws *Workspace) OpenFolder(path string) ([]loader.Entry, error) {
	entries, err := loader.ReadDir(path)
	if err != nil {
		return nil, err
	}
	if err := ws.call(func() { ws.folder = path }); err != nil {
		return nil, err
	}
	return entries, nil
}

// Folder returns the folder last opened with OpenFolder.
func (ws *Workspace) Folder() (string, error) {
	var folder string
	err := ws.call(func() { folder = ws.folder })
	return folder, err
}

// RunCommand executes a palette command. arg stands in for the picker
// dialog: the path chosen for "open file" and "open folder", where an
// empty arg means the dialog was cancelled.
func (ws *Workspace) RunCommand(text, arg string) error {
	return ws.palette(arg).Run(text)
}

// Commands lists the palette commands.
func (ws *Workspace) Commands() []commands.Command {
	return ws.palette("").List()
}

func (ws *Workspace) palette(arg string) *commands.Table {
	return commands.NewTable(commands.Actions{
		OpenFile: func() error {
			if arg == "" {
				return nil
			}
			_, err := ws.OpenFile(arg)
			var re *loader.ReadError
			if errors.As(err, &re) {
				// Already surfaced as a notification.
				return nil
			}
			return err
		},
		OpenFolder: func() error {
			if arg == "" {
				return nil
			}
			entries, err := ws.OpenFolder(arg)
			if err != nil {
				return err
			}
			return ws.call(func() {
				ws.notifier.Notify("folder", map[string]any{"path": arg, "entries": entries})
			})
		},
		NewTab: func() error {
			_, err := ws.NewTab()
			return err
		},
		CloseTab: ws.CloseActive,
		SaveFile: ws.SaveActive,
	})
}

// Restore reopens the tabs saved by a previous run.
func (ws *Workspace) Restore(ctx context.Context) error {
	if ws.store == nil {
		return nil
	}
	saved, err := ws.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load saved tabs: %w", err)
	}
	return ws.call(func() {
		active := -1
		for _, t := range saved {
			pos, _ := ws.open(t.Path)
			if t.Active {
				active = pos
			}
		}
		if active >= 0 {
			_ = ws.reg.SetActive(active)
		}
		ws.changed()
	})
}

// do runs fn on the workspace goroutine and returns its error.
func (ws *Workspace) do(fn func() error) error {
	var err error
	if cerr := ws.call(func() { err = fn() }); cerr != nil {
		return cerr
	}
	return err
}

// changed runs after every tab list mutation.
func (ws *Workspace) changed() {
	if err := ws.reg.Check(); err != nil {
		ws.log.Error("registry invariant violated", zap.Error(err))
	}
	ws.persist()
	ws.notifyTabs()
}

func (ws *Workspace) notifyTabs() {
	ws.notifier.Notify("tabs", ws.reg.Labels(labelWidth))
}

func (ws *Workspace) persist() {
	if ws.store == nil {
		return
	}
	active, _ := ws.reg.ActivePosition()
	sessions := ws.reg.Sessions()
	tabs := make([]store.Tab, 0, len(sessions))
	for _, s := range sessions {
		path, _ := s.FilePath()
		tabs = append(tabs, store.Tab{Position: s.Position(), Path: path, Active: s.Position() == active})
	}
	if err := ws.store.Save(ws.ctx, tabs); err != nil {
		ws.log.Warn("persist tabs", zap.Error(err))
	}
}
