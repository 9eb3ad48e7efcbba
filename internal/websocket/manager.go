package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const publishTimeout = 2 * time.Second

// Manager публикует события ленты рекордов
type Manager struct {
	hub   *Hub
	relay *RedisRelay
}

// NewManager создает менеджер; relay может быть nil для одиночного инстанса
func NewManager(hub *Hub, relay *RedisRelay) *Manager {
	return &Manager{hub: hub, relay: relay}
}

// Hub возвращает локальный хаб
func (m *Manager) Hub() *Hub {
	return m.hub
}

// BroadcastEvent отправляет событие всем клиентам всех инстансов
func (m *Manager) BroadcastEvent(eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return err
	}

	m.hub.BroadcastLocal(payload)

	if m.relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := m.relay.Publish(ctx, payload); err != nil {
			log.Printf("[WebSocketManager] Не удалось опубликовать %s в Redis: %v", eventType, err)
			return err
		}
	}
	return nil
}
