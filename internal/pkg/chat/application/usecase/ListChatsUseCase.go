package usecase

import (
	"context"
	"fmt"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

type ListChatsInput struct {
	UserID      int64
	Limit       int
	Offset      int
	NewestFirst bool
}

// ListChatsUseCase pages through the conversations a user created or joined.
type ListChatsUseCase struct {
	Repo repository.ChatRepository
}

func NewListChatsUseCase(repo repository.ChatRepository) *ListChatsUseCase {
	return &ListChatsUseCase{Repo: repo}
}

func (uc *ListChatsUseCase) Execute(ctx context.Context, in ListChatsInput) ([]chat.Conversation, error) {
	if in.UserID <= 0 {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if in.Limit < 0 || in.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if in.Limit == 0 {
		return []chat.Conversation{}, nil
	}
	convs, err := uc.Repo.ListConversations(ctx, in.UserID, in.Limit, in.Offset, in.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if convs == nil {
		convs = []chat.Conversation{}
	}
	return convs, nil
}
