package main

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tecawayBack/internal/models"
	"tecawayBack/internal/search"
	"tecawayBack/internal/services"
)

const (
	wsReadLimit     = 4 << 10
	wsReadDeadline  = 60 * time.Second
	wsWriteDeadline = 5 * time.Second
	wsPingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// searchConn serialises writes to one socket; gorilla allows a single writer at a time.
type searchConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *searchConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
	return c.conn.WriteJSON(v)
}

func (c *searchConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// SearchWebSocketHandler streams the search session state: the current
// snapshot on connect, then one message after every store mutation.
func (app *application) SearchWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	sess, err := app.searchService.Session(id)
	if errors.Is(err, models.ErrSessionNotFound) {
		app.clientError(w, http.StatusNotFound)
		return
	}
	if err != nil {
		app.serverError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Printf("search ws upgrade: %v", err)
		return
	}
	sc := &searchConn{conn: conn}

	// Only the latest state matters, so a full buffer drops the older update.
	updates := make(chan search.State, 1)
	unsubscribe := sess.Store.Subscribe(func(st search.State) {
		select {
		case updates <- st:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- st:
			default:
			}
		}
	})

	done := make(chan struct{})
	go app.readSearchSocket(sc, done)

	defer func() {
		unsubscribe()
		_ = conn.Close()
		app.infoLog.Printf("search ws closed session=%s", id)
	}()

	if err := sc.writeJSON(services.Response(sess, sess.Store.Snapshot())); err != nil {
		return
	}
	app.infoLog.Printf("search ws open session=%s", id)

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case st := <-updates:
			if err := sc.writeJSON(services.Response(sess, st)); err != nil {
				app.errorLog.Printf("search ws write session=%s: %v", id, err)
				return
			}
		case <-ticker.C:
			// An open socket keeps the session from being swept.
			if err := app.searchService.Sessions.Touch(id); err != nil {
				_ = sc.writeClose(websocket.CloseNormalClosure, "session ended")
				return
			}
			if err := sc.ping(); err != nil {
				return
			}
		}
	}
}

func (c *searchConn) writeClose(code int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, text)
	return c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteDeadline))
}

// readSearchSocket drains client frames so pongs and close frames are handled.
func (app *application) readSearchSocket(sc *searchConn, done chan<- struct{}) {
	defer close(done)

	sc.conn.SetReadLimit(wsReadLimit)
	_ = sc.conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	sc.conn.SetPongHandler(func(string) error {
		return sc.conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})

	for {
		if _, _, err := sc.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				app.errorLog.Printf("search ws read: %v", err)
			}
			return
		}
	}
}
