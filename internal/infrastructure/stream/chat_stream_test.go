package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"alquilar.backend/internal/domain/entities"
	"alquilar.backend/pkg/redis"
)

func setupRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
}

func TestChatStream_PublishSubscribe(t *testing.T) {
	setupRedis(t)
	s := NewChatStream()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chatID := uuid.New()
	messages, stop, err := s.Subscribe(ctx, chatID)
	require.NoError(t, err)
	defer stop()

	sent := &entities.Message{
		ID:         uuid.New(),
		ChatID:     chatID,
		SenderID:   uuid.New(),
		SenderType: entities.SenderTypeAgent,
		Content:    "Your car is ready for collection.",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.Publish(ctx, sent))

	select {
	case got := <-messages:
		require.Equal(t, sent.ID, got.ID)
		require.Equal(t, sent.Content, got.Content)
		require.Equal(t, entities.SenderTypeAgent, got.SenderType)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for streamed message")
	}
}

func TestChatStream_ChannelsAreIsolated(t *testing.T) {
	setupRedis(t)
	s := NewChatStream()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chatID := uuid.New()
	messages, stop, err := s.Subscribe(ctx, chatID)
	require.NoError(t, err)
	defer stop()

	other := &entities.Message{ID: uuid.New(), ChatID: uuid.New(), Content: "elsewhere"}
	require.NoError(t, s.Publish(ctx, other))

	select {
	case got := <-messages:
		t.Fatalf("received message from another chat: %+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}
