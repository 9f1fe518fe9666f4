package controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/apusetone/chat-service/internal/infrastructure/realtime"
	relayport "github.com/apusetone/chat-service/internal/infrastructure/relay/port"
	"github.com/apusetone/chat-service/internal/pkg/auth"
	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/session"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

// ChatSocketController upgrades a request to a realtime session on one conversation.
type ChatSocketController struct {
	Tokens        auth.TokenResolver
	Members       membershipVerifier
	Presence      *realtime.Registry
	Relay         relayport.Relay
	Submitter     session.Submitter
	ChannelPrefix string

	// base outlives the request: hijacked connections are not canceled by
	// http.Server.Shutdown, so sessions watch the server's context instead.
	base     context.Context
	upgrader websocket.Upgrader
}

func NewChatSocketController(
	base context.Context,
	tokens auth.TokenResolver,
	members membershipVerifier,
	presence *realtime.Registry,
	relay relayport.Relay,
	submitter session.Submitter,
	channelPrefix string,
	allowedOrigins []string,
) *ChatSocketController {
	return &ChatSocketController{
		Tokens:        tokens,
		Members:       members,
		Presence:      presence,
		Relay:         relay,
		Submitter:     submitter,
		ChannelPrefix: channelPrefix,
		base:          base,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

var errBadConversation = errors.New("chatId must be a positive integer")

func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// the upgrader already wrote the response
			return
		}

		ctx, cancel := context.WithCancel(ctl.base)
		defer cancel()

		conversationID, userID, err := ctl.admit(ctx, c)
		if err != nil {
			reject(ws, err)
			return
		}

		conn := realtime.NewConnection(ws, conversationID, userID)
		conn.Start(ctx)
		s := session.New(conversationID, userID, conn, ctl.Presence, ctl.Relay, ctl.Submitter, ctl.ChannelPrefix)
		if err := s.Run(ctx); err != nil {
			log.Printf("ws: conversation %d user %d: %v", conversationID, userID, err)
		}
	}
}

// admit resolves the caller and checks membership.
func (ctl *ChatSocketController) admit(ctx context.Context, c *gin.Context) (conversationID, userID int64, err error) {
	conversationID, err = strconv.ParseInt(c.Param("chatId"), 10, 64)
	if err != nil || conversationID <= 0 {
		return 0, 0, errBadConversation
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	userID, err = ctl.Tokens.Resolve(ctx, auth.BearerToken(c))
	if err != nil {
		return 0, 0, err
	}
	if err := ctl.Members.Execute(ctx, usecase.VerifyMembershipInput{ConversationID: conversationID, UserID: userID}); err != nil {
		return 0, 0, err
	}
	return conversationID, userID, nil
}

// reject closes a socket that never became a session.
func reject(ws *websocket.Conn, err error) {
	code, reason := realtime.ClosePolicyViolation, "unauthorized"
	switch {
	case errors.Is(err, auth.ErrTokenNotFound):
	case errors.Is(err, chat.ErrNotParticipant):
		reason = "not a member of this chat"
	case errors.Is(err, errBadConversation):
		reason = err.Error()
	default:
		log.Printf("ws: admit: %v", err)
		code, reason = realtime.CloseInternalError, "internal error"
	}
	_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
	_ = ws.Close()
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
