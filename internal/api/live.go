package api

import (
	"net/http"

	"marqueelz_backend/internal/service"
	"marqueelz_backend/pkg/auth"
	"marqueelz_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type liveRoutes struct {
	notifier *service.Notifications
}

// NewLiveRoutes exposes the per-user event stream: the server pushes
// chat, gallery, and reward events as JSON text frames until the client
// closes the socket.
func NewLiveRoutes(handler *gin.RouterGroup, notifier *service.Notifications, a *auth.Service) {
	r := &liveRoutes{notifier: notifier}

	h := handler.Group("/live")
	h.Use(a.Middleware())
	h.GET("", r.handleWebSocket)
}

func (r *liveRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	events, cancel := r.notifier.Subscribe(principal.UserID)

	// Reader goroutine only watches for the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go r.eventLoop(conn, events)
}

func (r *liveRoutes) eventLoop(conn *websocket.Conn, events <-chan service.Event) {
	log := logger.Logger()
	defer conn.Close()

	for event := range events {
		out, err := json.Marshal(event)
		if err != nil {
			log.Error("failed to marshal event", zap.Error(err))
			continue
		}

		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			log.Info("live session closed", zap.Error(err))
			return
		}
	}
}
