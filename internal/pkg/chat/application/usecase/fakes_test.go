package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	relayport "github.com/apusetone/chat-service/internal/infrastructure/relay/port"
	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	user "github.com/apusetone/chat-service/internal/pkg/user/application/domain"
	userrepo "github.com/apusetone/chat-service/internal/repository/port"
)

var errStorageDown = errors.New("storage down")

type fakeChatRepo struct {
	mu         sync.Mutex
	chats      map[int64]*chat.Chat
	messages   []chat.Message
	nextID     int64
	createErr  error
	appendErr  error
	deleteErr  error
	appendArgs [][]int64
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[int64]*chat.Chat)}
}

func (r *fakeChatRepo) addChat(id, creator int64, participants ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[id] = &chat.Chat{
		Conversation:   chat.Conversation{ID: id, CreatedBy: creator},
		ParticipantIDs: participants,
	}
}

func (r *fakeChatRepo) stored() []chat.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

func (r *fakeChatRepo) CreateConversation(_ context.Context, c chat.Conversation, participantIDs []int64) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return chat.Conversation{}, r.createErr
	}
	c.ID = int64(len(r.chats) + 1)
	r.chats[c.ID] = &chat.Chat{Conversation: c, ParticipantIDs: slices.Clone(participantIDs)}
	return c, nil
}

func (r *fakeChatRepo) AddParticipant(_ context.Context, p chat.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.chats[p.ConversationID]
	c.ParticipantIDs = append(c.ParticipantIDs, p.UserID)
	return nil
}

func (r *fakeChatRepo) GetChat(_ context.Context, id int64) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	cp := *c
	cp.ParticipantIDs = slices.Clone(c.ParticipantIDs)
	return &cp, nil
}

func (r *fakeChatRepo) IsMember(ctx context.Context, id, userID int64) (bool, error) {
	c, err := r.GetChat(ctx, id)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return false, nil
	}
	return c.IsMember(userID), err
}

func (r *fakeChatRepo) ListConversations(_ context.Context, userID int64, limit, offset int, newestFirst bool) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Conversation
	for _, c := range r.chats {
		if c.IsMember(userID) {
			out = append(out, c.Conversation)
		}
	}
	slices.SortFunc(out, func(a, b chat.Conversation) int {
		if newestFirst {
			return int(b.ID - a.ID)
		}
		return int(a.ID - b.ID)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeChatRepo) DeleteConversation(_ context.Context, id, creatorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	c, ok := r.chats[id]
	if !ok || c.Conversation.CreatedBy != creatorID {
		return false, nil
	}
	delete(r.chats, id)
	r.messages = slices.DeleteFunc(r.messages, func(m chat.Message) bool { return m.ConversationID == id })
	return true, nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return chat.Message{}, r.createErr
	}
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *fakeChatRepo) AppendReader(_ context.Context, ids []int64, userID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	r.appendArgs = append(r.appendArgs, slices.Clone(ids))
	var changed []int64
	for i := range r.messages {
		if slices.Contains(ids, r.messages[i].ID) && r.messages[i].MarkReadBy(userID) {
			changed = append(changed, r.messages[i].ID)
		}
	}
	return changed, nil
}

func (r *fakeChatRepo) GetMessagesByConversation(_ context.Context, id int64, limit, offset int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		m := r.messages[i]
		if m.ConversationID == id {
			m.ReadBy = chat.NewReaderSet(m.ReadBy.List()...)
			out = append(out, m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeChatRepo) DeleteMessage(_ context.Context, id, senderID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id && m.SenderID == senderID {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeUsers map[int64]user.User

func (f fakeUsers) FindByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, userrepo.ErrUserNotFound
	}
	return &u, nil
}

func (f fakeUsers) ListMobileDevices(context.Context, int64) ([]user.Device, error) {
	return nil, nil
}

type notification struct {
	userID   int64
	rendered string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, rendered string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userID: userID, rendered: rendered})
	return n.err
}

func (n *fakeNotifier) calls() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}

type failingRelay struct {
	publishes int
}

func (f *failingRelay) Publish(context.Context, string, []byte) error {
	f.publishes++
	return errors.New("relay unavailable")
}

func (f *failingRelay) Subscribe(context.Context, string) (relayport.Subscription, error) {
	return nil, errors.New("relay unavailable")
}
