package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/database"
	"socialhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type knownUsers map[uint]bool

func (k knownUsers) Exists(_ context.Context, userID uint) (bool, error) {
	return k[userID], nil
}

func newTestService(t *testing.T) *MessageService {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s := NewMessageService(db, knownUsers{1: true, 2: true, 3: true})
	// 每条消息间隔一秒，保证顺序稳定
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestSendMessage(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	msg, err := s.SendMessage(ctx, 1, 2, "  <i>hi</i> bob ")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", msg.Content)
	assert.Equal(t, uint(1), msg.SenderID)
	assert.Equal(t, uint(2), msg.ReceiverID)
	assert.Equal(t, "2024-05-01 12:00:01", msg.Timestamp)

	tests := []struct {
		name     string
		receiver uint
		content  string
		message  string
	}{
		{"empty content", 2, "   ", constants.ErrMissingMessageFields},
		{"only markup", 2, "<b></b>", constants.ErrMissingMessageFields},
		{"missing receiver", 0, "hello", constants.ErrMissingMessageFields},
		{"unknown receiver", 99, "hello", constants.ErrReceiverNotFound},
		{"too long", 2, strings.Repeat("a", constants.MaxMessageLength+1), constants.ErrMessageTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SendMessage(ctx, 1, tt.receiver, tt.content)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
			assert.Equal(t, tt.message, apperr.PublicMessage(err))
		})
	}

	_, err = s.SendMessage(ctx, 1, 2, strings.Repeat("é", constants.MaxMessageLength))
	assert.NoError(t, err)
}

func TestGetChat(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, m := range []struct {
		from, to uint
		text     string
	}{
		{1, 2, "one"},
		{2, 1, "two"},
		{1, 3, "other chat"},
		{1, 2, "three"},
	} {
		_, err := s.SendMessage(ctx, m.from, m.to, m.text)
		require.NoError(t, err)
	}

	page, err := s.GetChat(ctx, ChatQuery{UserA: 2, UserB: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Pages)
	assert.Equal(t, constants.DefaultChatPerPage, page.PerPage)
	require.Len(t, page.Messages, 3)
	assert.Equal(t, "three", page.Messages[0].Content)
	assert.Equal(t, "one", page.Messages[2].Content)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrev())

	asc, err := s.GetChat(ctx, ChatQuery{UserA: 1, UserB: 2, Page: 2, PerPage: 2, Order: constants.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, 2, asc.Pages)
	require.Len(t, asc.Messages, 1)
	assert.Equal(t, "three", asc.Messages[0].Content)
	assert.False(t, asc.HasNext())
	assert.True(t, asc.HasPrev())
	assert.Equal(t, 1, asc.PrevPage())

	beyond, err := s.GetChat(ctx, ChatQuery{UserA: 1, UserB: 2, Page: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Messages)

	_, err = s.GetChat(ctx, ChatQuery{UserA: 1})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestChatHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestService(t)
	tokens := middleware.NewTokenIssuer("secret", time.Hour)
	h := NewHandler(s)

	r := gin.New()
	auth := r.Group("/api/messages", middleware.JWT(tokens))
	auth.POST("/send", h.SendMessage)
	auth.GET("/chat", h.GetChat)

	token, err := tokens.GenerateToken(1)
	require.NoError(t, err)

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/messages/send", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for _, text := range []string{"a", "b", "c"} {
		w := send(`{"receiver_id":2,"content":"` + text + `"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := send(`{"receiver_id":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	get := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "http://chat.example.com/api/messages/chat"+query, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w = get("?user2=2&page=2&per_page=1")
	require.Equal(t, http.StatusOK, w.Code)
	var page ChatPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "b", page.Messages[0].Content)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://chat.example.com/api/messages/chat?order=desc&page=3&per_page=1&user2=2", *page.Next)
	require.NotNil(t, page.Prev)
	assert.Equal(t, "http://chat.example.com/api/messages/chat?order=desc&page=1&per_page=1&user2=2", *page.Prev)

	w = get("?user2=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"next":null`)
	assert.Contains(t, w.Body.String(), `"prev":null`)

	w = get("?user2=2&page=922337203685477582&per_page=10")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Empty(t, page.Messages)
	assert.Equal(t, int64(3), page.Total)
	assert.Nil(t, page.Next)

	w = get("?user2=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"`+constants.ErrMissingUser2+`"}`, w.Body.String())
}
