package repository

import (
	"context"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
// Messages are append-only; the only mutation is growing read_by_list.
type ChatRepository interface {
	// CreateConversation stores c and its participant rows atomically.
	CreateConversation(ctx context.Context, c chat.Conversation, participantIDs []int64) (chat.Conversation, error)
	AddParticipant(ctx context.Context, p chat.Participant) error
	// GetChat returns chat.ErrConversationNotFound when the conversation does not exist.
	GetChat(ctx context.Context, conversationID int64) (*chat.Chat, error)
	IsMember(ctx context.Context, conversationID, userID int64) (bool, error)
	// ListConversations pages through conversations userID created or joined,
	// ordered by id. A zero limit returns no rows.
	ListConversations(ctx context.Context, userID int64, limit, offset int, newestFirst bool) ([]chat.Conversation, error)
	// DeleteConversation removes the conversation with its participants and
	// messages when creatorID created it.
	DeleteConversation(ctx context.Context, conversationID, creatorID int64) (bool, error)

	// CreateMessage appends m and returns it with its id and timestamp assigned.
	CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	// AppendReader adds userID to read_by_list of each message that lacks it
	// and returns the ids that changed.
	AppendReader(ctx context.Context, messageIDs []int64, userID int64) ([]int64, error)
	// GetMessagesByConversation returns messages newest first. A zero limit
	// returns no rows.
	GetMessagesByConversation(ctx context.Context, conversationID int64, limit int, offset int) ([]chat.Message, error)
	// DeleteMessage removes the message only when senderID sent it.
	DeleteMessage(ctx context.Context, messageID, senderID int64) (bool, error)
}
