// internal/chat/session.go
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Session is one WebSocket connection. Its identity fields (userID, name,
// tokenKey) are written only by the gateway run loop after a successful auth
// frame; the pumps never touch them.
type Session struct {
	conn    *websocket.Conn
	send    chan []byte
	gateway *Gateway
	addr    string

	// owned by the gateway run loop
	closed   bool
	userID   string
	name     string
	tokenKey string
}

func newSession(conn *websocket.Conn, gateway *Gateway, addr string) *Session {
	conn.SetReadLimit(gateway.cfg.MaxMessageSize)

	return &Session{
		conn:    conn,
		send:    make(chan []byte, gateway.cfg.SendBufferSize),
		gateway: gateway,
		addr:    addr,
	}
}

func (s *Session) authenticated() bool {
	return s.userID != ""
}

func (s *Session) readPump() {
	defer func() {
		// The run loop may already be gone during shutdown.
		select {
		case s.gateway.unregister <- s:
		case <-s.gateway.ctx.Done():
		}
		s.conn.Close()
	}()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				logrus.WithField("addr", s.addr).WithError(err).Debug("WebSocket read error")
			}
			return
		}

		in := inboundFrame{session: s}
		if err := json.Unmarshal(raw, &in.frame); err != nil {
			in = inboundFrame{session: s, malformed: true}
		}

		select {
		case s.gateway.inbound <- in:
		case <-s.gateway.ctx.Done():
			return
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Gateway evicted the session; say goodbye properly.
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

			// Drain anything already queued before the next select.
			for i := len(s.send); i > 0; i-- {
				payload, ok := <-s.send
				if !ok {
					s.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
