package usecase

import (
	"context"
	"fmt"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

// ReadMessageInput selects a page of a conversation for one reader.
type ReadMessageInput struct {
	ConversationID int64
	UserID         int64
	Limit          int
	Offset         int
}

// ReadMessageUseCase returns a page of messages newest first and records the
// caller as a reader of every returned message they did not send. A zero
// Limit asks for an empty page and marks nothing.
type ReadMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewReadMessageUseCase(repo repository.ChatRepository) *ReadMessageUseCase {
	return &ReadMessageUseCase{Repo: repo}
}

func (uc *ReadMessageUseCase) Execute(ctx context.Context, in ReadMessageInput) ([]chat.Message, error) {
	if in.ConversationID <= 0 || in.UserID <= 0 {
		return nil, fmt.Errorf("%w: conversation and user are required", ErrInvalidInput)
	}
	if in.Limit < 0 || in.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	ok, err := uc.Repo.IsMember(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrNotParticipant
	}
	if in.Limit == 0 {
		return []chat.Message{}, nil
	}

	msgs, err := uc.Repo.GetMessagesByConversation(ctx, in.ConversationID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var unread []int64
	for i := range msgs {
		if msgs[i].MarkReadBy(in.UserID) {
			unread = append(unread, msgs[i].ID)
		}
	}
	if len(unread) > 0 {
		if _, err := uc.Repo.AppendReader(ctx, unread, in.UserID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return msgs, nil
}
