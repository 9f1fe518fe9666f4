package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/apusetone/chat-service/internal/infrastructure/realtime"
	relayadapter "github.com/apusetone/chat-service/internal/infrastructure/relay/adapter"
	relayport "github.com/apusetone/chat-service/internal/infrastructure/relay/port"
	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

const testPrefix = "chat_messages_"

// echoSubmitter publishes every message on the conversation channel.
type echoSubmitter struct {
	relay    relayport.Relay
	presence *realtime.Registry
}

func (e echoSubmitter) Execute(ctx context.Context, in usecase.SubmitMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.ConversationID, in.SenderID, in.Content, e.presence.ListOthers(in.ConversationID, in.SenderID))
	if err != nil {
		return nil, err
	}
	msg.ID = 1
	payload, err := chat.EncodeRecord(msg)
	if err != nil {
		return nil, err
	}
	return msg, e.relay.Publish(ctx, relayport.ChannelName(testPrefix, in.ConversationID), payload)
}

func newSocketServer(t *testing.T) (*httptest.Server, *realtime.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	presence := realtime.NewRegistry()
	relay := relayadapter.NewMemoryRelay()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctl := NewChatSocketController(
		ctx, tokens, fakeMembers{members: map[int64]bool{1: true, 2: true}}, presence, relay,
		echoSubmitter{relay: relay, presence: presence}, testPrefix, []string{"*"},
	)
	r := gin.New()
	r.GET("/api/v1/ws/chat/:chatId", ctl.Handle())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, presence
}

func dial(t *testing.T, srv *httptest.Server, chatID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/chat/" + chatID
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func expectClose(t *testing.T, ws *websocket.Conn, code int) {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	var ce *websocket.CloseError
	if !errors.As(err, &ce) || ce.Code != code {
		t.Fatalf("read err = %v, want close %d", err, code)
	}
}

func waitPresent(t *testing.T, presence *realtime.Registry, conv, user int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !presence.IsPresent(conv, user) {
		if time.Now().After(deadline) {
			t.Fatalf("user %d never became present", user)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSocketRejectsBadCredentials(t *testing.T) {
	srv, presence := newSocketServer(t)

	expectClose(t, dial(t, srv, "3", ""), websocket.ClosePolicyViolation)
	expectClose(t, dial(t, srv, "3", "nobody"), websocket.ClosePolicyViolation)
	expectClose(t, dial(t, srv, "3", "mallory"), websocket.ClosePolicyViolation)
	expectClose(t, dial(t, srv, "nope", "alice"), websocket.ClosePolicyViolation)

	if presence.Len() != 0 {
		t.Fatalf("presence len = %d, want 0", presence.Len())
	}
}

func TestSocketQueryTokenAndFanOut(t *testing.T) {
	srv, presence := newSocketServer(t)

	alice := dial(t, srv, "3", "alice")
	waitPresent(t, presence, 3, 1)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/chat/3?token=bob"
	bob, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial bob: %v", err)
	}
	defer bob.Close()
	waitPresent(t, presence, 3, 2)

	if err := alice.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	for name, ws := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("%s read: %v", name, err)
		}
		var rec chat.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			t.Fatalf("%s decode: %v", name, err)
		}
		if rec.Content != "hello" || len(rec.ReadByList) != 1 || rec.ReadByList[0] != 2 {
			t.Fatalf("%s got %+v", name, rec)
		}
	}

	_ = alice.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	deadline := time.Now().Add(2 * time.Second)
	for presence.IsPresent(3, 1) {
		if time.Now().After(deadline) {
			t.Fatal("alice still present after closing")
		}
		time.Sleep(time.Millisecond)
	}
	if !presence.IsPresent(3, 2) {
		t.Fatal("bob lost presence when alice left")
	}
}
