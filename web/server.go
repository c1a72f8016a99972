// Package web serves the browser frontend: static files plus a JSON-RPC
// channel over a WebSocket.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/a4-editor/a4/commands"
	"github.com/a4-editor/a4/editor"
	"github.com/a4-editor/a4/highlight"
	"github.com/a4-editor/a4/loader"
)

//go:embed static/*
var staticFS embed.FS

// Workspace is the editor state the frontend drives. Tabs are addressed by
// position.
type Workspace interface {
	NewTab() (int, error)
	OpenFile(path string) (int, error)
	CloseTab(position int) error
	Activate(position int) error
	Tabs() ([]editor.TabLabel, error)
	Text(position int) (string, error)
	Edit(position int, text string) error
	Undo(position int) (bool, error)
	Redo(position int) (bool, error)
	Save(position int) error
	SaveAs(position int, path string) error
	Reorder(ids []uint64) error
	MoveTab(from, to int) error
	Runs(position int) ([]highlight.StyleRun, error)
	OpenFolder(path string) ([]loader.Entry, error)
	Folder() (string, error)
	RunCommand(text, arg string) error
	Commands() []commands.Command
}

// JSON-RPC error codes.
const (
	codeNotFound       = -32004
	codeServerError    = -32000
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Server provides the web frontend HTTP + WebSocket server.
type Server struct {
	ws       Workspace
	log      *zap.Logger
	upgrader websocket.Upgrader

	iconDir      string
	fallbackIcon string

	mu      sync.Mutex
	clients []*wsClient
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type rpcRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewServer creates a web server backed by ws.
func NewServer(ws Workspace, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		ws:  ws,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ws":
		s.handleWebSocket(w, r)
		return
	case "/icon":
		s.handleIcon(w, r)
		return
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		http.Error(w, "static files unavailable", http.StatusInternalServerError)
		return
	}
	http.FileServer(http.FS(sub)).ServeHTTP(w, r)
}

// ServeIcons lets /icon?path= serve downloaded language icons from dir plus
// the fallback icon. Nothing else in dir is served.
func (s *Server) ServeIcons(dir, fallback string) {
	s.iconDir = filepath.Clean(dir)
	s.fallbackIcon = filepath.Clean(fallback)
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	path := filepath.Clean(r.URL.Query().Get("path"))
	if !s.servesIcon(path) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) servesIcon(path string) bool {
	if s.fallbackIcon != "" && s.fallbackIcon != "." && path == s.fallbackIcon {
		return true
	}
	return s.iconDir != "" && s.iconDir != "." &&
		filepath.Dir(path) == s.iconDir && loader.IsIconFile(filepath.Base(path))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	client := &wsClient{conn: conn}
	s.mu.Lock()
	s.clients = append(s.clients, client)
	s.mu.Unlock()
	s.log.Debug("client connected", zap.String("remote", r.RemoteAddr))

	defer func() {
		conn.Close()
		s.mu.Lock()
		for i, c := range s.clients {
			if c == client {
				s.clients = append(s.clients[:i], s.clients[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.log.Debug("dropping malformed request", zap.Error(err))
			continue
		}
		resp := s.handleRPC(req)
		data, err := json.Marshal(resp)
		if err != nil {
			s.log.Error("marshal response", zap.String("method", req.Method), zap.Error(err))
			continue
		}
		if err := client.write(data); err != nil {
			return
		}
	}
}

type positionParams struct {
	Position int `json:"position"`
}

type pathParams struct {
	Path string `json:"path"`
}

func (s *Server) handleRPC(req rpcRequest) rpcResponse {
	var (
		result any
		err    error
	)
	switch req.Method {
	case "newTab":
		var pos int
		pos, err = s.ws.NewTab()
		result = map[string]int{"position": pos}
	case "openFile":
		result, err = s.rpcOpenFile(req.Params)
	case "closeTab":
		var p positionParams
		if err = decode(req.Params, &p); err == nil {
			err = s.ws.CloseTab(p.Position)
		}
		result = ok()
	case "activate":
		var p positionParams
		if err = decode(req.Params, &p); err == nil {
			err = s.ws.Activate(p.Position)
		}
		result = ok()
	case "listTabs":
		var labels []editor.TabLabel
		labels, err = s.ws.Tabs()
		result = map[string]any{"tabs": labels}
	case "readBuffer":
		var p positionParams
		var text string
		if err = decode(req.Params, &p); err == nil {
			text, err = s.ws.Text(p.Position)
		}
		result = map[string]string{"text": text}
	case "writeBuffer":
		var p struct {
			Position int    `json:"position"`
			Text     string `json:"text"`
		}
		if err = decode(req.Params, &p); err == nil {
			err = s.ws.Edit(p.Position, p.Text)
		}
		result = ok()
	case "undo", "redo":
		var p positionParams
		var changed bool
		if err = decode(req.Params, &p); err == nil {
			if req.Method == "undo" {
				changed, err = s.ws.Undo(p.Position)
			} else {
				changed, err = s.ws.Redo(p.Position)
			}
		}
		result = map[string]bool{"changed": changed}
	case "saveFile":
		var p struct {
			Position int    `json:"position"`
			Path     string `json:"path,omitempty"`
		}
		if err = decode(req.Params, &p); err == nil {
			if p.Path != "" {
				err = s.ws.SaveAs(p.Position, p.Path)
			} else {
				err = s.ws.Save(p.Position)
			}
		}
		result = map[string]string{"status": "saved"}
	case "reorderTabs":
		var p struct {
			IDs []uint64 `json:"ids"`
		}
		if err = decode(req.Params, &p); err == nil {
			err = s.ws.Reorder(p.IDs)
		}
		result = ok()
	case "moveTab":
		var p struct {
			From int `json:"from"`
			To   int `json:"to"`
		}
		if err = decode(req.Params, &p); err == nil {
			err = s.ws.MoveTab(p.From, p.To)
		}
		result = ok()
	case "highlight":
		var p positionParams
		var runs []highlight.StyleRun
		if err = decode(req.Params, &p); err == nil {
			runs, err = s.ws.Runs(p.Position)
		}
		result = map[string]any{"runs": runs}
	case "listFolder":
		var p pathParams
		var entries []loader.Entry
		if err = decode(req.Params, &p); err == nil {
			entries, err = s.ws.OpenFolder(p.Path)
		}
		result = map[string]any{"entries": entries}
	case "currentFolder":
		result, err = s.rpcCurrentFolder()
	case "listCommands":
		result = map[string]any{"commands": s.ws.Commands()}
	case "runCommand":
		var p struct {
			Command string `json:"command"`
			Arg     string `json:"arg,omitempty"`
		}
		if err = decode(req.Params, &p); err == nil {
			err = s.ws.RunCommand(p.Command, p.Arg)
		}
		result = ok()
	default:
		return rpcResponse{
			ID:    req.ID,
			Error: &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}
	if err != nil {
		s.log.Debug("rpc failed", zap.String("method", req.Method), zap.Error(err))
		return rpcResponse{ID: req.ID, Error: toRPCError(err)}
	}
	return rpcResponse{ID: req.ID, Result: result}
}

// rpcOpenFile reports a read failure as a warning on an otherwise
// successful result: the workspace still opened an untitled tab.
func (s *Server) rpcOpenFile(raw json.RawMessage) (any, error) {
	var p pathParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	pos, err := s.ws.OpenFile(p.Path)
	var re *loader.ReadError
	switch {
	case errors.As(err, &re):
		return map[string]any{"position": pos, "warning": re.Error()}, nil
	case err != nil:
		return nil, err
	}
	return map[string]any{"position": pos}, nil
}

// rpcCurrentFolder lists the folder opened earlier, so a reconnecting
// client can rebuild its file browser.
func (s *Server) rpcCurrentFolder() (any, error) {
	path, err := s.ws.Folder()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return map[string]any{"path": ""}, nil
	}
	entries, err := s.ws.OpenFolder(path)
	if err != nil {
		return nil, err
	}
	return map[string]any{"path": path, "entries": entries}, nil
}

func ok() map[string]string {
	return map[string]string{"status": "ok"}
}

type paramsError struct{ err error }

func (e *paramsError) Error() string { return "invalid params: " + e.err.Error() }
func (e *paramsError) Unwrap() error { return e.err }

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &paramsError{err: err}
	}
	return nil
}

func toRPCError(err error) *rpcError {
	code := codeServerError
	var pe *paramsError
	switch {
	case errors.As(err, &pe):
		code = codeInvalidParams
	case errors.Is(err, editor.ErrNotFound):
		code = codeNotFound
	case errors.Is(err, commands.ErrUnknownCommand):
		code = codeMethodNotFound
	}
	return &rpcError{Code: code, Message: err.Error()}
}

// Notify sends a notification to all connected WebSocket clients.
func (s *Server) Notify(method string, params any) {
	msg, err := json.Marshal(map[string]any{
		"method": method,
		"params": params,
	})
	if err != nil {
		s.log.Error("marshal notification", zap.String("method", method), zap.Error(err))
		return
	}
	s.mu.Lock()
	clients := append([]*wsClient(nil), s.clients...)
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.write(msg); err != nil {
			s.log.Debug("notify client", zap.Error(err))
		}
	}
}
