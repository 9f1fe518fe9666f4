package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

var validate = validator.New()

// CreateChatInput carries the required data to open a new conversation.
type CreateChatInput struct {
	CreatorID      int64   `validate:"gt=0"`
	Name           string  `validate:"required,max=255"`
	ParticipantIDs []int64 `validate:"required,min=1,dive,gt=0"`
}

// CreateChatUseCase creates a conversation owned by the caller. Two or more
// invited participants make it a group chat.
type CreateChatUseCase struct {
	Repo repository.ChatRepository
}

func NewCreateChatUseCase(repo repository.ChatRepository) *CreateChatUseCase {
	return &CreateChatUseCase{Repo: repo}
}

// Execute persists a conversation and registers participants
func (uc *CreateChatUseCase) Execute(ctx context.Context, in CreateChatInput) (*chat.Chat, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ids := slices.Clone(in.ParticipantIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	ids = slices.DeleteFunc(ids, func(id int64) bool { return id == in.CreatorID })
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: participant_ids must include someone other than the creator", ErrInvalidInput)
	}

	conv := chat.Conversation{
		CreatedBy: in.CreatorID,
		Type:      chat.ChatTypeFor(len(ids)),
		Name:      in.Name,
		CreatedAt: time.Now().UTC(),
	}
	saved, err := uc.Repo.CreateConversation(ctx, conv, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &chat.Chat{Conversation: saved, ParticipantIDs: ids}, nil
}
