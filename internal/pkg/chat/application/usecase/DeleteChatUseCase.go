package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/apusetone/chat-service/internal/infrastructure/realtime"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

// SessionCloser ends the live sessions of a conversation.
type SessionCloser interface {
	CloseConversation(conversationID int64, code int, reason string) int
}

type DeleteChatInput struct {
	ConversationID int64
	UserID         int64
}

// DeleteChatUseCase removes a conversation created by the caller, together
// with its participants and messages. Like message deletion it does nothing
// when the conversation is gone or owned by someone else.
type DeleteChatUseCase struct {
	Repo     repository.ChatRepository
	Sessions SessionCloser
}

func NewDeleteChatUseCase(repo repository.ChatRepository, sessions SessionCloser) *DeleteChatUseCase {
	return &DeleteChatUseCase{Repo: repo, Sessions: sessions}
}

func (uc *DeleteChatUseCase) Execute(ctx context.Context, in DeleteChatInput) error {
	if in.ConversationID <= 0 || in.UserID <= 0 {
		return fmt.Errorf("%w: conversation and user are required", ErrInvalidInput)
	}
	deleted, err := uc.Repo.DeleteConversation(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !deleted || uc.Sessions == nil {
		return nil
	}
	// only sessions held by this process; others fail on their next write
	if n := uc.Sessions.CloseConversation(in.ConversationID, realtime.CloseNormal, "conversation deleted"); n > 0 {
		log.Printf("chat: conversation %d deleted, closed %d sessions", in.ConversationID, n)
	}
	return nil
}
