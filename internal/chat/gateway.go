// internal/chat/gateway.go
//
// The presence/chat gateway. One goroutine (Run) owns the connection
// registry, the credential-in-use set, and all state transitions
// (Unauthenticated -> Authenticated -> Closed); sessions talk to it over
// channels, so no locking is needed around the registry itself.
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/config"
	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

var connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "shoplane_chat_connected_clients",
	Help: "Number of authenticated chat connections.",
})

type inboundFrame struct {
	session   *Session
	frame     ClientFrame
	malformed bool
}

type Gateway struct {
	db  *gorm.DB
	cfg config.ChatConfig

	register   chan *Session
	unregister chan *Session
	inbound    chan inboundFrame

	// owned by Run
	sessions    map[*Session]bool   // every open connection, authenticated or not
	online      map[string]*Session // user ID -> session
	tokensInUse map[string]string   // credential hash -> user ID

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewGateway(db *gorm.DB, cfg config.ChatConfig) *Gateway {
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		db:          db,
		cfg:         cfg,
		register:    make(chan *Session),
		unregister:  make(chan *Session),
		inbound:     make(chan inboundFrame),
		sessions:    make(map[*Session]bool),
		online:      make(map[string]*Session),
		tokensInUse: make(map[string]string),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Run is the gateway's event loop. Call it in its own goroutine; it returns
// when Shutdown cancels the context.
func (g *Gateway) Run() {
	defer close(g.done)

	sweepInterval := time.Duration(g.cfg.SweepInterval) * time.Second
	if sweepInterval <= 0 {
		sweepInterval = 30 * time.Second
	}
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-g.ctx.Done():
			g.closeAll()
			return

		case session := <-g.register:
			g.sessions[session] = true
			go session.writePump()
			go session.readPump()
			logrus.WithField("addr", session.addr).Debug("Chat connection opened")

		case session := <-g.unregister:
			if g.evict(session) {
				g.broadcastPresence()
			}

		case in := <-g.inbound:
			g.handleFrame(in)

		case <-sweep.C:
			g.sweepDead()
		}
	}
}

func (g *Gateway) handleFrame(in inboundFrame) {
	session := in.session
	if session.closed {
		return
	}

	if in.malformed {
		g.sendTo(session, errorPayload("Malformed frame"))
		return
	}

	switch in.frame.Type {
	case FrameAuth:
		g.handleAuth(session, in.frame.Token)
	case FrameMessage:
		g.handleMessage(session, in.frame)
	default:
		// Non-fatal: the connection stays open.
		g.sendTo(session, errorPayload("Unknown frame type"))
	}
}

// handleAuth verifies the credential once per connection. Every failure is
// terminal: an error frame is sent and the socket is closed, no retry. A
// repeat auth frame on a live session is refused without closing it; the
// session keeps its original identity and credential marker.
func (g *Gateway) handleAuth(session *Session, token string) {
	if session.authenticated() {
		g.sendTo(session, errorPayload("Already authenticated"))
		return
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		g.rejectAuth(session, "Invalid token")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		g.rejectAuth(session, "Invalid token")
		return
	}

	var user models.User
	if err := g.db.First(&user, userID).Error; err != nil {
		g.rejectAuth(session, "User not found")
		return
	}

	tokenKey := utils.HashString(token)
	if _, inUse := g.tokensInUse[tokenKey]; inUse {
		// The original connection is unaffected.
		g.rejectAuth(session, "Credential already in use")
		return
	}

	// A fresh login replaces a previous connection of the same user.
	if previous, ok := g.online[user.ID.String()]; ok && previous != session {
		g.evict(previous)
	}

	session.userID = user.ID.String()
	session.name = user.Name
	session.tokenKey = tokenKey
	g.online[session.userID] = session
	g.tokensInUse[tokenKey] = session.userID
	connectedClients.Set(float64(len(g.online)))

	g.sendTo(session, marshalFrame(AuthFrame{
		Type: FrameAuth,
		User: UserInfo{ID: session.userID, Name: session.name},
	}))
	g.broadcastPresence()

	logrus.WithFields(logrus.Fields{
		"user_id": session.userID,
		"addr":    session.addr,
	}).Info("Chat user authenticated")
}

// handleMessage relays a direct message to a single recipient and echoes it
// back to the sender with a server-assigned timestamp. An absent or dead
// recipient produces an error frame for the sender only; the message is
// dropped, never queued.
func (g *Gateway) handleMessage(session *Session, frame ClientFrame) {
	if !session.authenticated() {
		g.sendTo(session, errorPayload("Not authenticated"))
		return
	}

	recipient, ok := g.online[frame.RecipientID]
	if !ok || recipient.closed {
		g.sendTo(session, errorPayload("Recipient is not online"))
		return
	}

	payload := marshalFrame(MessageFrame{
		Type:        FrameMessage,
		SenderID:    session.userID,
		SenderName:  session.name,
		RecipientID: frame.RecipientID,
		Content:     frame.Content,
		Timestamp:   time.Now().Format(time.RFC3339),
	})

	g.sendTo(recipient, payload)
	g.sendTo(session, payload)
}

func (g *Gateway) rejectAuth(session *Session, reason string) {
	g.sendTo(session, errorPayload(reason))
	g.evict(session)
}

// evict removes the session from the registry and releases its credential
// marker. It reports whether the session was authenticated, i.e. whether
// presence changed. Safe to call twice; only the first call closes the send
// channel.
func (g *Gateway) evict(session *Session) bool {
	if session.closed {
		return false
	}
	session.closed = true
	delete(g.sessions, session)

	wasOnline := false
	if session.authenticated() {
		if current, ok := g.online[session.userID]; ok && current == session {
			delete(g.online, session.userID)
			wasOnline = true
		}
		delete(g.tokensInUse, session.tokenKey)
		connectedClients.Set(float64(len(g.online)))
	}

	close(session.send)
	return wasOnline
}

// sweepDead pings every open socket and evicts the ones that no longer
// respond to writes, covering close events that never fired.
func (g *Gateway) sweepDead() {
	evicted := false
	for session := range g.sessions {
		err := session.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		if err != nil {
			logrus.WithField("addr", session.addr).Debug("Sweeping dead chat connection")
			if g.evict(session) {
				evicted = true
			}
		}
	}

	if evicted {
		g.broadcastPresence()
	}
}

// broadcastPresence pushes the full online-user snapshot to every connected
// socket, authenticated or not.
func (g *Gateway) broadcastPresence() {
	users := make([]UserInfo, 0, len(g.online))
	for _, session := range g.online {
		users = append(users, UserInfo{ID: session.userID, Name: session.name})
	}

	payload := marshalFrame(OnlineUsersFrame{Type: FrameOnlineUsers, Users: users})
	for session := range g.sessions {
		g.sendTo(session, payload)
	}
}

// sendTo queues a payload without blocking the run loop. A full send buffer
// drops the frame; the sweep will collect the connection if it is dead.
func (g *Gateway) sendTo(session *Session, payload []byte) {
	if session.closed || payload == nil {
		return
	}

	select {
	case session.send <- payload:
	default:
		logrus.WithField("addr", session.addr).Warn("Chat send buffer full, dropping frame")
	}
}

func (g *Gateway) closeAll() {
	for session := range g.sessions {
		g.evict(session)
	}
}

// Shutdown stops the run loop and closes every connection.
func (g *Gateway) Shutdown(timeout time.Duration) error {
	g.cancel()

	select {
	case <-g.done:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}
