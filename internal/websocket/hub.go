package websocket

import (
	"context"
	"log"
	"sync"
)

// Hub хранит подключенных клиентов одного инстанса и рассылает им сообщения
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu    sync.RWMutex
	count int
}

// NewHub создает хаб; Run нужно запустить отдельно
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию и рассылку до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	log.Println("[Hub] Запущен")
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			h.setCount(0)
			log.Println("[Hub] Остановлен")
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount(len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.setCount(len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.enqueue(message) {
					log.Printf("[Hub] Буфер клиента %s переполнен, отключаем", client.ConnectionID)
					delete(h.clients, client)
					client.closeSend()
				}
			}
			h.setCount(len(h.clients))
		}
	}
}

// BroadcastLocal рассылает сообщение клиентам только этого инстанса
func (h *Hub) BroadcastLocal(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		log.Println("[Hub] Очередь рассылки переполнена, сообщение отброшено")
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}
