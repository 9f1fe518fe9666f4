package http

import (
	"context"

	"github.com/apusetone/chat-service/internal/infrastructure/realtime"
	relayport "github.com/apusetone/chat-service/internal/infrastructure/relay/port"
	"github.com/apusetone/chat-service/internal/pkg/auth"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

// Dependencies are the process-wide collaborators the chat endpoints share.
type Dependencies struct {
	Chats       repository.ChatRepository
	Tokens      auth.TokenResolver
	Presence    *realtime.Registry
	Relay       relayport.Relay
	Coordinator *usecase.SubmitMessageUseCase

	ChannelPrefix  string
	AllowedOrigins []string
	// BaseContext is canceled when the server shuts down; realtime sessions
	// end with it.
	BaseContext context.Context
}
