package chat

import (
	"errors"
	"slices"
)

// Domain-level errors for chat behaviors
var (
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrNotParticipant       = errors.New("chat: user is not a participant in the conversation")
	ErrNotCreator           = errors.New("chat: only the conversation creator can do this")
	ErrMessageNotFound      = errors.New("chat: message not found")
	ErrEmptyMessage         = errors.New("chat: empty message")
	ErrContentTooLong       = errors.New("chat: message content exceeds 1024 characters")
)

// Chat is a conversation hydrated with its participant rows.
// Membership is the creator plus every participant.
type Chat struct {
	Conversation   Conversation
	ParticipantIDs []int64
}

// IsMember tells whether userID may read and post in the conversation.
func (c *Chat) IsMember(userID int64) bool {
	if c == nil {
		return false
	}
	return c.Conversation.CreatedBy == userID || slices.Contains(c.ParticipantIDs, userID)
}

// MemberIDs returns the creator and participants, sorted and without duplicates.
func (c *Chat) MemberIDs() []int64 {
	if c == nil {
		return nil
	}
	ids := make([]int64, 0, len(c.ParticipantIDs)+1)
	ids = append(ids, c.Conversation.CreatedBy)
	ids = append(ids, c.ParticipantIDs...)
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Absent returns members other than senderID that are not in present.
func (c *Chat) Absent(senderID int64, present []int64) []int64 {
	var out []int64
	for _, id := range c.MemberIDs() {
		if id == senderID || slices.Contains(present, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
