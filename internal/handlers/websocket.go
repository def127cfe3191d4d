package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	ws "github.com/thereayou/noticeboard/internal/websocket"
)

// WebSocketHandler подключает клиентов к хабу уведомлений
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// NewWebSocketHandler: при пустом allowedOrigins подходит любой origin
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, log logrus.FieldLogger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// HandleWebSocket: ставится после WSAuth
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	_ = client.SendMessage(ws.TypeConnected, map[string]interface{}{
		"userId": user.ID,
	})
}
