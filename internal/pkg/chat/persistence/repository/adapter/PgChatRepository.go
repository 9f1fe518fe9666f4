package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

var errNilPool = errors.New("PgChatRepository: nil pool")

func (r *PgChatRepository) CreateConversation(ctx context.Context, c chat.Conversation, participantIDs []int64) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errNilPool
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO chats (created_by, chat_type, name, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, c.CreatedBy, c.Type, c.Name, c.CreatedAt).Scan(&c.ID, &c.CreatedAt); err != nil {
			return fmt.Errorf("insert chat: %w", err)
		}
		for _, uid := range participantIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO chat_participants (chat_id, user_id)
				VALUES ($1, $2)
				ON CONFLICT (chat_id, user_id) DO NOTHING
			`, c.ID, uid); err != nil {
				return fmt.Errorf("insert participant %d: %w", uid, err)
			}
		}
		return nil
	})
	if err != nil {
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PgChatRepository) AddParticipant(ctx context.Context, p chat.Participant) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_participants (chat_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, user_id) DO NOTHING
	`, p.ConversationID, p.UserID)
	return err
}

func (r *PgChatRepository) GetChat(ctx context.Context, conversationID int64) (*chat.Chat, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	var c chat.Chat
	err := r.pool.QueryRow(ctx, `
		SELECT id, created_by, chat_type, name, created_at
		FROM chats
		WHERE id = $1
	`, conversationID).Scan(&c.Conversation.ID, &c.Conversation.CreatedBy, &c.Conversation.Type, &c.Conversation.Name, &c.Conversation.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM chat_participants WHERE chat_id = $1 ORDER BY user_id
	`, conversationID)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}
	c.ParticipantIDs = ids
	return &c, nil
}

func (r *PgChatRepository) IsMember(ctx context.Context, conversationID, userID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errNilPool
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chats WHERE id = $1 AND created_by = $2)
		    OR EXISTS (SELECT 1 FROM chat_participants WHERE chat_id = $1 AND user_id = $2)
	`, conversationID, userID).Scan(&ok)
	return ok, err
}

func (r *PgChatRepository) ListConversations(ctx context.Context, userID int64, limit, offset int, newestFirst bool) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	if limit < 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	order := "ASC"
	if newestFirst {
		order = "DESC"
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_by, chat_type, name, created_at
		FROM chats
		WHERE created_by = $1
		   OR id IN (SELECT chat_id FROM chat_participants WHERE user_id = $1)
		ORDER BY id `+order+`
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Conversation, error) {
		var c chat.Conversation
		err := row.Scan(&c.ID, &c.CreatedBy, &c.Type, &c.Name, &c.CreatedAt)
		return c, err
	})
}

func (r *PgChatRepository) DeleteConversation(ctx context.Context, conversationID, creatorID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errNilPool
	}
	// participants and messages go with the chat (ON DELETE CASCADE)
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chats WHERE id = $1 AND created_by = $2
	`, conversationID, creatorID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgChatRepository) CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r == nil || r.pool == nil {
		return chat.Message{}, errNilPool
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (chat_id, sender_id, content, read_by_list, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.ConversationID, m.SenderID, m.Content, m.ReadBy.List(), m.CreatedAt).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) AppendReader(ctx context.Context, messageIDs []int64, userID int64) ([]int64, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	if len(messageIDs) == 0 {
		return nil, nil
	}
	// array_append under NOT ANY keeps the column a set even under concurrent readers
	rows, err := r.pool.Query(ctx, `
		UPDATE messages
		SET read_by_list = array_append(read_by_list, $2)
		WHERE id = ANY($1)
		  AND sender_id <> $2
		  AND NOT ($2 = ANY(read_by_list))
		RETURNING id
	`, messageIDs, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (r *PgChatRepository) GetMessagesByConversation(ctx context.Context, conversationID int64, limit int, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	// LIMIT 0 is a valid empty page
	if limit < 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_id, sender_id, content, read_by_list, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg    chat.Message
			readBy []int64
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &readBy, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.ReadBy = chat.NewReaderSet(readBy...)
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *PgChatRepository) DeleteMessage(ctx context.Context, messageID, senderID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errNilPool
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM messages WHERE id = $1 AND sender_id = $2
	`, messageID, senderID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
