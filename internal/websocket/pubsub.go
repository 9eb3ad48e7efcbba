package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DefaultRelayChannel канал Redis, через который инстансы обмениваются событиями
const DefaultRelayChannel = "streakquiz:ws:broadcast"

// ClusterMessage представляет сообщение, передаваемое между инстансами
type ClusterMessage struct {
	// InstanceID отправителя, чтобы не доставлять событие повторно
	InstanceID string          `json:"instance_id"`
	Payload    json.RawMessage `json:"payload"`
	Timestamp  time.Time       `json:"timestamp"`
}

// RedisRelay пересылает широковещательные события между инстансами API через Redis Pub/Sub
type RedisRelay struct {
	client     redis.UniversalClient
	channel    string
	instanceID string
	hub        *Hub

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRedisRelay создает ретранслятор для хаба
func NewRedisRelay(client redis.UniversalClient, hub *Hub, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		hub:        hub,
	}
}

// InstanceID возвращает идентификатор этого инстанса
func (r *RedisRelay) InstanceID() string {
	return r.instanceID
}

// Start подписывается на канал и доставляет чужие события локальным клиентам.
// Возвращается после подтверждения подписки.
func (r *RedisRelay) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}
	log.Printf("[RedisRelay] Подписка на %s, инстанс %s", r.channel, r.instanceID)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.deliver(msg.Payload)
			}
		}
	}()
	return nil
}

func (r *RedisRelay) deliver(raw string) {
	var msg ClusterMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		log.Printf("[RedisRelay] Некорректное сообщение кластера: %v", err)
		return
	}
	if msg.InstanceID == r.instanceID {
		return
	}
	r.hub.BroadcastLocal(msg.Payload)
}

// Publish отправляет событие остальным инстансам
func (r *RedisRelay) Publish(ctx context.Context, payload []byte) error {
	data, err := json.Marshal(ClusterMessage{
		InstanceID: r.instanceID,
		Payload:    payload,
		Timestamp:  time.Now(),
	})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Stop отписывается и дожидается завершения горутины
func (r *RedisRelay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}
