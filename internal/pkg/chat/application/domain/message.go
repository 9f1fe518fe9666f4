package chat

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxContentLength is the longest message content accepted, in characters.
const MaxContentLength = 1024

var validate = validator.New()

// Message is an append-only entry in a conversation; only ReadBy changes after creation.
type Message struct {
	ID             int64     `db:"id"`
	ConversationID int64     `db:"chat_id"`
	SenderID       int64     `db:"sender_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	ReadBy         ReaderSet `db:"read_by_list"`
}

// IsBlank reports whether content has nothing but whitespace.
func IsBlank(content string) bool {
	return strings.TrimSpace(content) == ""
}

// ValidateContent checks content the way every entry point must before persisting.
func ValidateContent(content string) error {
	if IsBlank(content) {
		return ErrEmptyMessage
	}
	// validator counts runes for strings
	if err := validate.Var(content, "max=1024"); err != nil {
		return ErrContentTooLong
	}
	return nil
}

// NewMessage validates content and returns an unsaved message read by readers.
// The sender is never recorded as a reader of its own message.
func NewMessage(conversationID, senderID int64, content string, readers []int64) (*Message, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	readBy := NewReaderSet()
	for _, id := range readers {
		if id != senderID {
			readBy.Add(id)
		}
	}
	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
		ReadBy:         readBy,
	}, nil
}

// MarkReadBy adds userID as a reader unless they sent the message.
// It reports whether the set changed.
func (m *Message) MarkReadBy(userID int64) bool {
	if m.SenderID == userID {
		return false
	}
	return m.ReadBy.Add(userID)
}
