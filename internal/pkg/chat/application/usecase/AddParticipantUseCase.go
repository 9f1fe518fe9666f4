package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

// AddParticipantInput invites UserID into a conversation on behalf of ActorID.
type AddParticipantInput struct {
	ConversationID int64
	ActorID        int64
	UserID         int64
}

// AddParticipantUseCase lets the creator invite another user. Adding an
// existing participant is a no-op.
type AddParticipantUseCase struct {
	Repo repository.ChatRepository
}

func NewAddParticipantUseCase(repo repository.ChatRepository) *AddParticipantUseCase {
	return &AddParticipantUseCase{Repo: repo}
}

func (uc *AddParticipantUseCase) Execute(ctx context.Context, in AddParticipantInput) error {
	if in.ConversationID <= 0 || in.UserID <= 0 {
		return fmt.Errorf("%w: conversation and user are required", ErrInvalidInput)
	}
	c, err := uc.Repo.GetChat(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if c.Conversation.CreatedBy != in.ActorID {
		return chat.ErrNotCreator
	}
	if c.IsMember(in.UserID) {
		return nil
	}
	if err := uc.Repo.AddParticipant(ctx, chat.Participant{ConversationID: in.ConversationID, UserID: in.UserID}); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
