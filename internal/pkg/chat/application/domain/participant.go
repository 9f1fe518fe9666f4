package chat

import "time"

// Participant is a user invited to a conversation.
// Primary key: (ConversationID, UserID)
type Participant struct {
	ConversationID int64     `db:"chat_id"`
	UserID         int64     `db:"user_id"`
	CreatedAt      time.Time `db:"created_at"`
}
