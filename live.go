package ogcards

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// liveConn wraps a WebSocket connection with its own mutex for writes.
type liveConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// LiveReload tells open gallery pages to reload when content changes.
type LiveReload struct {
	mu       sync.RWMutex
	conns    map[*websocket.Conn]*liveConn
	upgrader websocket.Upgrader
}

// NewLiveReload returns a LiveReload with no connected clients.
func NewLiveReload() *LiveReload {
	return &LiveReload{conns: make(map[*websocket.Conn]*liveConn)}
}

func (l *LiveReload) add(conn *websocket.Conn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conns[conn] = &liveConn{conn: conn}
}

func (l *LiveReload) remove(conn *websocket.Conn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.conns, conn)
}

// Clients returns the number of connected pages.
func (l *LiveReload) Clients() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.conns)
}

// Invalidate broadcasts a reload message to every connected page.
func (l *LiveReload) Invalidate() {
	l.broadcast(map[string]any{"type": "reload"})
}

func (l *LiveReload) broadcast(message map[string]any) {
	l.mu.RLock()
	conns := make([]*liveConn, 0, len(l.conns))
	for _, c := range l.conns {
		conns = append(conns, c)
	}
	l.mu.RUnlock()

	for _, c := range conns {
		c.mu.Lock()
		err := c.conn.WriteJSON(message)
		c.mu.Unlock()
		if err != nil {
			l.remove(c.conn)
			c.conn.Close()
		}
	}
}

// Handle upgrades the request and holds the connection until the client
// goes away. Clients never send anything meaningful.
func (l *LiveReload) Handle(c echo.Context) error {
	conn, err := l.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}
	l.add(conn)
	defer func() {
		l.remove(conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Invalidators fans one invalidation out to several targets.
type Invalidators []Invalidator

// Invalidate calls Invalidate on every target in order.
func (s Invalidators) Invalidate() {
	for _, t := range s {
		t.Invalidate()
	}
}
