package dev

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rokoui/roko/internal/errors"
)

// ReloadPath is the websocket endpoint the reload client connects to.
const ReloadPath = "/_roko/reload"

// ReloadMessageType represents the type of reload message.
type ReloadMessageType string

const (
	ReloadTypeFull  ReloadMessageType = "reload"
	ReloadTypeCSS   ReloadMessageType = "css"
	ReloadTypeError ReloadMessageType = "error"
	ReloadTypeClear ReloadMessageType = "clear"
)

// ReloadMessage is sent to browsers via WebSocket.
type ReloadMessage struct {
	Type   ReloadMessageType `json:"type"`
	File   string            `json:"file,omitempty"`
	Errors []Diagnostic      `json:"errors,omitempty"`
}

// Diagnostic is one generation or build error as shown by the browser
// overlay.
type Diagnostic struct {
	Code       string   `json:"code,omitempty"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	Context    []string `json:"context,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	// Text is the whole error in plain text, for the browser console.
	Text string `json:"text"`
}

// Diagnostics flattens err into one Diagnostic per leaf error. Errors
// other than RokoError carry only their message.
func Diagnostics(err error) []Diagnostic {
	var out []Diagnostic
	for _, leaf := range errors.Flatten(err) {
		var re *errors.RokoError
		if !stderrors.As(leaf, &re) {
			out = append(out, Diagnostic{Message: leaf.Error(), Text: leaf.Error()})
			continue
		}
		d := Diagnostic{
			Code:       re.Code,
			Message:    re.Message,
			Detail:     re.Detail,
			Context:    re.Context,
			Suggestion: re.Suggestion,
			Text:       re.FormatPlain(),
		}
		if re.Location != nil {
			d.File, d.Line, d.Column = re.Location.File, re.Location.Line, re.Location.Column
		}
		out = append(out, d)
	}
	return out
}

// reloadClient serializes writes to one connection; gorilla/websocket
// allows a single concurrent writer.
type reloadClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *reloadClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ReloadServer pushes generation results to connected browsers.
type ReloadServer struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*reloadClient
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// last is the pending error, replayed to clients that connect while
	// the project is broken.
	last []byte

	// onCount is called with the client count after it changes.
	onCount func(int)
}

// NewReloadServer creates a new reload server. A nil logger uses
// slog.Default().
func NewReloadServer(logger *slog.Logger) *ReloadServer {
	if logger == nil {
		logger = slog.Default().With("component", "reload")
	}
	return &ReloadServer{
		logger:  logger,
		clients: make(map[*websocket.Conn]*reloadClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // dev only
			},
		},
	}
}

// HandleWebSocket upgrades the request and holds the connection until
// the browser goes away.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := &reloadClient{conn: conn}
	r.mu.Lock()
	r.clients[conn] = client
	n := len(r.clients)
	pending := r.last
	r.mu.Unlock()
	r.logger.Debug("reload client connected", "clients", n)
	r.counted(n)

	if pending != nil {
		if err := client.write(pending); err != nil {
			r.drop(conn)
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	r.drop(conn)
}

func (r *ReloadServer) drop(conn *websocket.Conn) {
	r.mu.Lock()
	_, ok := r.clients[conn]
	delete(r.clients, conn)
	n := len(r.clients)
	r.mu.Unlock()
	conn.Close()
	if ok {
		r.counted(n)
	}
}

func (r *ReloadServer) counted(n int) {
	if r.onCount != nil {
		r.onCount(n)
	}
}

// NotifyReload tells every client to reload the page.
func (r *ReloadServer) NotifyReload() {
	r.broadcast(ReloadMessage{Type: ReloadTypeFull})
}

// NotifyCSS tells every client to refetch its stylesheets.
func (r *ReloadServer) NotifyCSS(file string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeCSS, File: file})
}

// NotifyError shows err on every client's overlay until ClearError. Each
// leaf of a joined error becomes its own entry.
func (r *ReloadServer) NotifyError(err error) {
	r.broadcast(ReloadMessage{Type: ReloadTypeError, Errors: Diagnostics(err)})
}

// ClearError removes the overlay on every client.
func (r *ReloadServer) ClearError() {
	r.broadcast(ReloadMessage{Type: ReloadTypeClear})
}

func (r *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error("encode reload message", "error", err)
		return
	}

	r.mu.Lock()
	switch msg.Type {
	case ReloadTypeError:
		r.last = data
	case ReloadTypeClear, ReloadTypeFull:
		r.last = nil
	}
	clients := make([]*reloadClient, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			r.logger.Debug("dropping reload client", "error", err)
			r.drop(c.conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	for conn := range r.clients {
		conn.Close()
		delete(r.clients, conn)
	}
	r.mu.Unlock()
	r.counted(0)
}

// DevClientScript is injected into served HTML pages. It reloads on
// "reload", refetches stylesheets on "css", and lists diagnostics in an
// overlay on "error".
const DevClientScript = `
<script>
(function() {
    'use strict';
    var delay = 1000;

    function connect() {
        var scheme = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(scheme + '//' + location.host + '/_roko/reload');
        ws.onopen = function() { delay = 1000; };
        ws.onmessage = function(e) {
            var msg;
            try { msg = JSON.parse(e.data); } catch (err) { return; }
            if (msg.type === 'reload') {
                location.reload();
            } else if (msg.type === 'css') {
                document.querySelectorAll('link[rel="stylesheet"]').forEach(function(link) {
                    var url = new URL(link.href);
                    url.searchParams.set('_roko', Date.now());
                    link.href = url.toString();
                });
            } else if (msg.type === 'error') {
                (msg.errors || []).forEach(function(d) { console.error('[roko] ' + d.text); });
                overlay(msg.errors || []);
            } else if (msg.type === 'clear') {
                overlay(null);
            }
        };
        ws.onclose = function() {
            setTimeout(connect, delay);
            delay = Math.min(delay * 2, 30000);
        };
    }

    function el(tag, css, text) {
        var n = document.createElement(tag);
        n.style.cssText = css;
        if (text) n.textContent = text;
        return n;
    }

    function overlay(errors) {
        var old = document.getElementById('roko-error-overlay');
        if (old) old.remove();
        if (!errors) return;

        var root = el('div', 'position:fixed;inset:0;background:rgba(0,0,0,0.9);color:#eee;font:14px monospace;padding:20px;overflow:auto;z-index:999999;');
        root.id = 'roko-error-overlay';
        errors.forEach(function(d) {
            var box = el('div', 'max-width:860px;margin:0 auto 24px;');
            var head = (d.code ? d.code + ' ' : '') + d.message;
            box.appendChild(el('h2', 'color:#ff5555;margin:0 0 8px;font-size:16px;', head));
            if (d.file) {
                box.appendChild(el('div', 'color:#8be9fd;', d.file + ':' + d.line + (d.column ? ':' + d.column : '')));
            }
            if (d.detail) box.appendChild(el('p', 'margin:8px 0;', d.detail));
            if (d.context && d.context.length) {
                box.appendChild(el('pre', 'background:#1a1a1a;padding:12px;border:1px solid #333;white-space:pre-wrap;', d.context.join('\n')));
            }
            if (d.suggestion) box.appendChild(el('p', 'color:#f1fa8c;', d.suggestion));
            root.appendChild(box);
        });
        document.body.appendChild(root);
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
