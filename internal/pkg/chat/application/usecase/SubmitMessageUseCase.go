package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	relayport "github.com/apusetone/chat-service/internal/infrastructure/relay/port"
	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	repository "github.com/apusetone/chat-service/internal/pkg/chat/persistence/repository/port"
	notifyport "github.com/apusetone/chat-service/internal/pkg/notification/port"
	userrepo "github.com/apusetone/chat-service/internal/repository/port"
)

const defaultNotifyTimeout = 10 * time.Second

// PresenceSnapshot reports who is currently connected to a conversation.
type PresenceSnapshot interface {
	ListOthers(conversationID, excludeUserID int64) []int64
}

// SubmitMessageInput carries one message posted by a member.
type SubmitMessageInput struct {
	ConversationID int64
	SenderID       int64
	Content        string
}

// SubmitMessageUseCase persists a message, broadcasts it on the conversation
// channel and notifies members who are not connected.
//
// Members connected when the message is created are recorded as readers.
// Broadcast and notification are best-effort: only a storage failure fails
// the call.
type SubmitMessageUseCase struct {
	Repo          repository.ChatRepository
	Users         userrepo.UserRepository
	Presence      PresenceSnapshot
	Relay         relayport.Relay
	Notifier      notifyport.Notifier
	ChannelPrefix string
	NotifyTimeout time.Duration

	mu      sync.Mutex
	closing bool
	pending sync.WaitGroup
}

func NewSubmitMessageUseCase(
	repo repository.ChatRepository,
	users userrepo.UserRepository,
	presence PresenceSnapshot,
	relay relayport.Relay,
	notifier notifyport.Notifier,
	channelPrefix string,
) *SubmitMessageUseCase {
	return &SubmitMessageUseCase{
		Repo:          repo,
		Users:         users,
		Presence:      presence,
		Relay:         relay,
		Notifier:      notifier,
		ChannelPrefix: channelPrefix,
		NotifyTimeout: defaultNotifyTimeout,
	}
}

// Execute returns the stored message once it is persisted and the publish attempt finished.
func (uc *SubmitMessageUseCase) Execute(ctx context.Context, in SubmitMessageInput) (*chat.Message, error) {
	if in.ConversationID <= 0 || in.SenderID <= 0 {
		return nil, fmt.Errorf("%w: conversation and sender are required", ErrInvalidInput)
	}
	if err := chat.ValidateContent(in.Content); err != nil {
		return nil, err
	}

	present := uc.Presence.ListOthers(in.ConversationID, in.SenderID)

	msg, err := chat.NewMessage(in.ConversationID, in.SenderID, in.Content, present)
	if err != nil {
		return nil, err
	}
	saved, err := uc.Repo.CreateMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.publish(ctx, &saved)

	if !uc.track() {
		log.Printf("chat: message %d stored during shutdown, notifications skipped", saved.ID)
		return &saved, nil
	}
	go func() {
		defer uc.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.notifyTimeout())
		defer cancel()
		uc.notifyAbsent(nctx, &saved, present)
	}()

	return &saved, nil
}

// Wait blocks until every notification round started by Execute has finished.
func (uc *SubmitMessageUseCase) Wait() {
	uc.pending.Wait()
}

// Close stops starting notification rounds and waits for the running ones.
// Execute keeps storing and broadcasting messages after Close.
func (uc *SubmitMessageUseCase) Close() {
	uc.mu.Lock()
	uc.closing = true
	uc.mu.Unlock()
	uc.pending.Wait()
}

// track registers a notification round unless Close has been called. The
// check and the Add share the lock so no Add can race with Close's Wait.
func (uc *SubmitMessageUseCase) track() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.closing {
		return false
	}
	uc.pending.Add(1)
	return true
}

func (uc *SubmitMessageUseCase) publish(ctx context.Context, msg *chat.Message) {
	channel := relayport.ChannelName(uc.ChannelPrefix, msg.ConversationID)
	payload, err := chat.EncodeRecord(msg)
	if err != nil {
		log.Printf("chat: encode message %d: %v", msg.ID, err)
		return
	}
	if err := uc.Relay.Publish(ctx, channel, payload); err != nil {
		log.Printf("chat: message %d stored but not broadcast on %s: %v", msg.ID, channel, err)
	}
}

func (uc *SubmitMessageUseCase) notifyAbsent(ctx context.Context, msg *chat.Message, present []int64) {
	c, err := uc.Repo.GetChat(ctx, msg.ConversationID)
	if err != nil {
		log.Printf("chat: notify message %d: load conversation: %v", msg.ID, err)
		return
	}
	absent := c.Absent(msg.SenderID, present)
	if len(absent) == 0 {
		return
	}
	sender, err := uc.Users.FindByID(ctx, msg.SenderID)
	if err != nil {
		log.Printf("chat: notify message %d: load sender %d: %v", msg.ID, msg.SenderID, err)
		return
	}
	rendered := fmt.Sprintf("%s: %s", sender.Username, msg.Content)
	for _, userID := range absent {
		if err := uc.Notifier.Notify(ctx, userID, rendered); err != nil {
			log.Printf("chat: notify user %d of message %d: %v", userID, msg.ID, err)
		}
	}
}

func (uc *SubmitMessageUseCase) notifyTimeout() time.Duration {
	if uc.NotifyTimeout > 0 {
		return uc.NotifyTimeout
	}
	return defaultNotifyTimeout
}
