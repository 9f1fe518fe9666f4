package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsInput names the conversation and the member asking.
type ListParticipantsInput struct {
	ConversationID int64
	UserID         int64
}

// ListParticipantsUseCase returns the conversation with its participants.
type ListParticipantsUseCase struct {
	Repo repository.ChatRepository
}

func NewListParticipantsUseCase(repo repository.ChatRepository) *ListParticipantsUseCase {
	return &ListParticipantsUseCase{Repo: repo}
}

func (uc *ListParticipantsUseCase) Execute(ctx context.Context, in ListParticipantsInput) (*chat.Chat, error) {
	if in.ConversationID <= 0 {
		return nil, fmt.Errorf("%w: conversation is required", ErrInvalidInput)
	}
	c, err := uc.Repo.GetChat(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !c.IsMember(in.UserID) {
		return nil, chat.ErrNotParticipant
	}
	return c, nil
}
