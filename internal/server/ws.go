package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	apperrors "archview/pkg/errors"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is same-origin in production and proxied in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebsocket pushes the full view payload to the client every time a
// layout completes, so renderers never poll for positions.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	lv, err := s.acquire(r.Context(), sess)
	if err != nil {
		s.logger.Error("rebuild view", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "view rebuild failed")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "session", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := lv.subscribe()
	defer unsubscribe()

	// Reader goroutine: the client never sends data frames, but reading is
	// required to process close and pong frames.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		lv.mu.Lock()
		payload := buildPayload(sess, lv)
		lv.mu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(payload)
	}

	// Initial state so the client renders without waiting for a layout.
	if err := send(); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-updates:
			if err := send(); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
