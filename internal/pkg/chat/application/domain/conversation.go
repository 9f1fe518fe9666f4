package chat

import "time"

// ChatType distinguishes one-to-one conversations from groups.
type ChatType int16

const (
	ChatTypeDirect ChatType = 0
	ChatTypeGroup  ChatType = 1
)

func (t ChatType) String() string {
	switch t {
	case ChatTypeDirect:
		return "direct"
	case ChatTypeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ChatTypeFor picks the type of a new conversation from the number of invited participants.
func ChatTypeFor(participants int) ChatType {
	if participants >= 2 {
		return ChatTypeGroup
	}
	return ChatTypeDirect
}

// Conversation is a chat room, direct or group.
type Conversation struct {
	ID        int64     `db:"id"`
	CreatedBy int64     `db:"created_by"`
	Type      ChatType  `db:"chat_type"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
