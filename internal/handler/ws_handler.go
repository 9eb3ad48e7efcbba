package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/streak-quiz-api/internal/websocket"
)

// WSHandler отдаёт ленту рекордов по WebSocket
type WSHandler struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

// NewWSHandler создает обработчик. allowedOrigins синхронизирован с CORS в main.go.
func NewWSHandler(hub *websocket.Hub, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WSHandler{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Не браузерный клиент (мобильное приложение, curl)
				if origin == "" {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
				return false
			},
		},
	}
}

// HandleLeaderboard подключает зрителя к ленте NEW_RECORD. Аутентификация не нужна.
func (h *WSHandler) HandleLeaderboard(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ с ошибкой
		log.Printf("[WSHandler] Error upgrading connection: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, c.GetString("username"))
	log.Printf("[WSHandler] Подключен зритель ленты, ConnID: %s", client.ConnectionID)
	client.StartPumps()
}
