package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
)

type chatServiceStub struct {
	createFn       func(ctx context.Context, userID uuid.UUID, input *entities.CreateChatInput) (*entities.Chat, error)
	sendFn         func(ctx context.Context, chatID, senderID uuid.UUID, isAgent bool, input *entities.SendMessageInput) (*entities.Message, error)
	listFn         func(ctx context.Context, userID uuid.UUID) ([]*entities.Chat, error)
	messagesFn     func(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) ([]*entities.Message, error)
	updateStatusFn func(ctx context.Context, chatID uuid.UUID, status entities.ChatStatus) error
	canSubscribeFn func(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) error
}

func (s *chatServiceStub) CreateChat(ctx context.Context, userID uuid.UUID, input *entities.CreateChatInput) (*entities.Chat, error) {
	return s.createFn(ctx, userID, input)
}

func (s *chatServiceStub) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, isAgent bool, input *entities.SendMessageInput) (*entities.Message, error) {
	return s.sendFn(ctx, chatID, senderID, isAgent, input)
}

func (s *chatServiceStub) GetUserChats(ctx context.Context, userID uuid.UUID) ([]*entities.Chat, error) {
	return s.listFn(ctx, userID)
}

func (s *chatServiceStub) GetMessages(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) ([]*entities.Message, error) {
	return s.messagesFn(ctx, chatID, requesterID, isAgent)
}

func (s *chatServiceStub) UpdateStatus(ctx context.Context, chatID uuid.UUID, status entities.ChatStatus) error {
	return s.updateStatusFn(ctx, chatID, status)
}

func (s *chatServiceStub) CanSubscribe(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) error {
	return s.canSubscribeFn(ctx, chatID, requesterID, isAgent)
}

type chatSubscriberStub struct {
	subscribeFn func(ctx context.Context, chatID uuid.UUID) (<-chan *entities.Message, func(), error)
}

func (s *chatSubscriberStub) Subscribe(ctx context.Context, chatID uuid.UUID) (<-chan *entities.Message, func(), error) {
	return s.subscribeFn(ctx, chatID)
}

func TestChatHandler_CreateChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	chats := &chatServiceStub{
		createFn: func(_ context.Context, gotUser uuid.UUID, input *entities.CreateChatInput) (*entities.Chat, error) {
			require.Equal(t, userID, gotUser)
			require.Equal(t, "Key card issue", input.Subject)
			return &entities.Chat{ID: uuid.New(), Subject: input.Subject, Status: entities.ChatStatusOpen}, nil
		},
	}
	h := NewChatHandler(chats, &chatSubscriberStub{})
	r := gin.New()
	r.POST("/chats", authAs(userID, "user"), h.CreateChat)

	body := `{"subject":"Key card issue","message":"My key card stopped working"}`
	req := httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"status":"open"`)

	// First message is required.
	req = httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader(`{"subject":"No message"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_SendMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	chatID := uuid.New()
	chats := &chatServiceStub{
		sendFn: func(_ context.Context, gotChat, sender uuid.UUID, isAgent bool, input *entities.SendMessageInput) (*entities.Message, error) {
			require.Equal(t, chatID, gotChat)
			require.Equal(t, userID, sender)
			require.False(t, isAgent)
			return &entities.Message{ID: uuid.New(), ChatID: gotChat, Content: input.Content}, nil
		},
	}
	h := NewChatHandler(chats, &chatSubscriberStub{})
	r := gin.New()
	r.POST("/chats/:id/messages", authAs(userID, "user"), h.SendMessage)

	req := httptest.NewRequest(http.MethodPost, "/chats/"+chatID.String()+"/messages",
		strings.NewReader(`{"content":"still broken"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "still broken")
}

func TestChatHandler_SendMessage_ClosedChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	chats := &chatServiceStub{
		sendFn: func(context.Context, uuid.UUID, uuid.UUID, bool, *entities.SendMessageInput) (*entities.Message, error) {
			return nil, domainerrors.ErrInvalidInput
		},
	}
	h := NewChatHandler(chats, &chatSubscriberStub{})
	r := gin.New()
	r.POST("/chats/:id/messages", authAs(uuid.New(), "user"), h.SendMessage)

	req := httptest.NewRequest(http.MethodPost, "/chats/"+uuid.NewString()+"/messages",
		strings.NewReader(`{"content":"hello?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_ListAndMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	chatID := uuid.New()
	chats := &chatServiceStub{
		listFn: func(_ context.Context, gotUser uuid.UUID) ([]*entities.Chat, error) {
			require.Equal(t, userID, gotUser)
			return []*entities.Chat{{ID: chatID, Subject: "Key card issue"}}, nil
		},
		messagesFn: func(_ context.Context, gotChat, _ uuid.UUID, isAgent bool) ([]*entities.Message, error) {
			require.Equal(t, chatID, gotChat)
			require.False(t, isAgent)
			return []*entities.Message{{ChatID: gotChat, Content: "first"}}, nil
		},
	}
	h := NewChatHandler(chats, &chatSubscriberStub{})
	r := gin.New()
	r.GET("/chats", authAs(userID, "user"), h.ListMyChats)
	r.GET("/chats/:id/messages", authAs(userID, "user"), h.GetMessages)

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Key card issue")

	req = httptest.NewRequest(http.MethodGet, "/chats/"+chatID.String()+"/messages", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "first")
}

// closeNotifyRecorder adds the http.CloseNotifier method gin's c.Stream
// requires, which httptest.ResponseRecorder does not implement.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestChatHandler_StreamMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	chatID := uuid.New()

	chats := &chatServiceStub{
		canSubscribeFn: func(_ context.Context, gotChat, requester uuid.UUID, _ bool) error {
			require.Equal(t, chatID, gotChat)
			require.Equal(t, userID, requester)
			return nil
		},
	}
	stream := &chatSubscriberStub{
		subscribeFn: func(_ context.Context, _ uuid.UUID) (<-chan *entities.Message, func(), error) {
			ch := make(chan *entities.Message, 2)
			ch <- &entities.Message{ChatID: chatID, Content: "live reply"}
			close(ch)
			return ch, func() {}, nil
		},
	}
	h := NewChatHandler(chats, stream)
	r := gin.New()
	r.GET("/chats/:id/stream", authAs(userID, "user"), h.StreamMessages)

	req := httptest.NewRequest(http.MethodGet, "/chats/"+chatID.String()+"/stream", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(&closeNotifyRecorder{w, make(chan bool, 1)}, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), "live reply")
}

func TestChatHandler_StreamMessages_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	chats := &chatServiceStub{
		canSubscribeFn: func(context.Context, uuid.UUID, uuid.UUID, bool) error {
			return domainerrors.ErrForbidden
		},
	}
	h := NewChatHandler(chats, &chatSubscriberStub{})
	r := gin.New()
	r.GET("/chats/:id/stream", authAs(uuid.New(), "user"), h.StreamMessages)

	req := httptest.NewRequest(http.MethodGet, "/chats/"+uuid.NewString()+"/stream", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestChatHandler_UpdateChatStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	chatID := uuid.New()
	chats := &chatServiceStub{
		updateStatusFn: func(_ context.Context, gotChat uuid.UUID, status entities.ChatStatus) error {
			require.Equal(t, chatID, gotChat)
			require.Equal(t, entities.ChatStatusResolved, status)
			return nil
		},
	}
	h := NewChatHandler(chats, &chatSubscriberStub{})
	r := gin.New()
	r.PUT("/admin/chats/:id/status", authAs(uuid.New(), "admin"), h.UpdateChatStatus)

	req := httptest.NewRequest(http.MethodPut, "/admin/chats/"+chatID.String()+"/status",
		strings.NewReader(`{"status":"resolved"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
