package websocket

// Типы событий ленты рекордов
const (
	// NEW_RECORD сообщает о новом личном рекорде игрока
	NEW_RECORD = "NEW_RECORD"

	// SERVER_ERROR отправляется клиенту при некорректном сообщении
	SERVER_ERROR = "server:error"
)

// Event представляет структуру WebSocket-сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
