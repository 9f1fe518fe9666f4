package usecase

import (
	"context"
	"fmt"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

// VerifyMembershipInput names the user asking to enter a conversation.
type VerifyMembershipInput struct {
	ConversationID int64
	UserID         int64
}

// VerifyMembershipUseCase ensures the user is the creator or a participant
// before a realtime session or REST write is allowed.
type VerifyMembershipUseCase struct {
	Repo repository.ChatRepository
}

func NewVerifyMembershipUseCase(repo repository.ChatRepository) *VerifyMembershipUseCase {
	return &VerifyMembershipUseCase{Repo: repo}
}

func (uc *VerifyMembershipUseCase) Execute(ctx context.Context, in VerifyMembershipInput) error {
	if in.ConversationID <= 0 || in.UserID <= 0 {
		return fmt.Errorf("%w: conversation and user are required", ErrInvalidInput)
	}
	ok, err := uc.Repo.IsMember(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}
	return nil
}
