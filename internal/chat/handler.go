// internal/chat/handler.go
package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the storefront origin; auth happens
	// in-band via the auth frame, not at upgrade time.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the HTTP request and hands the connection to the gateway.
func (g *Gateway) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	session := newSession(conn, g, c.ClientIP())

	select {
	case g.register <- session:
	case <-g.ctx.Done():
		conn.Close()
	}
}
