package usecase

import (
	"context"
	"fmt"

	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

type DeleteMessageInput struct {
	MessageID int64
	UserID    int64
}

// DeleteMessageUseCase removes a message sent by the caller. Deleting a
// message that is gone or belongs to someone else does nothing.
type DeleteMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewDeleteMessageUseCase(repo repository.ChatRepository) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID <= 0 || in.UserID <= 0 {
		return fmt.Errorf("%w: message and user are required", ErrInvalidInput)
	}
	if _, err := uc.Repo.DeleteMessage(ctx, in.MessageID, in.UserID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
