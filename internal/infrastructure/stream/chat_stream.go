package stream

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
	"alquilar.backend/pkg/redis"
)

const chatChannelPrefix = "chat:messages:"

// ChatStream fans chat messages out over Redis pub/sub so connected clients
// see replies as they land instead of polling.
type ChatStream struct{}

// NewChatStream creates a chat stream
func NewChatStream() *ChatStream {
	return &ChatStream{}
}

func chatChannel(chatID uuid.UUID) string {
	return chatChannelPrefix + chatID.String()
}

// Publish broadcasts a message to everyone subscribed to its chat
func (s *ChatStream) Publish(ctx context.Context, message *entities.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return redis.Publish(ctx, chatChannel(message.ChatID), payload)
}

// Subscribe returns a channel of live messages for one chat. The returned
// cancel func must be called to release the underlying subscription.
func (s *ChatStream) Subscribe(ctx context.Context, chatID uuid.UUID) (<-chan *entities.Message, func(), error) {
	sub := redis.Subscribe(ctx, chatChannel(chatID))

	// Force the subscription to be established before returning so a
	// publish immediately after Subscribe is not lost.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, err
	}

	out := make(chan *entities.Message)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var m entities.Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				continue
			}
			select {
			case out <- &m:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { sub.Close() }
	return out, cancel, nil
}
