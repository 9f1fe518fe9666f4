package chat

import (
	"encoding/json"
	"time"
)

// Record is the serialized form of a message sent over the relay and to clients.
type Record struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	ReadByList []int64   `json:"read_by_list"`
}

func (m *Message) Record() Record {
	return Record{
		ID:         m.ID,
		SenderID:   m.SenderID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.UTC(),
		ReadByList: m.ReadBy.List(),
	}
}

// EncodeRecord marshals the wire record of m.
func EncodeRecord(m *Message) ([]byte, error) {
	return json.Marshal(m.Record())
}
