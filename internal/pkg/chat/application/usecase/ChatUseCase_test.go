package usecase

import (
	"context"
	"errors"
	"slices"
	"testing"

	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
)

func seedMessages(t *testing.T, repo *fakeChatRepo) {
	t.Helper()
	ctx := context.Background()
	for _, m := range []struct {
		sender  int64
		content string
		readers []int64
	}{
		{alice, "one", nil},
		{bob, "two", nil},
		{alice, "three", []int64{bob}},
	} {
		msg, err := chat.NewMessage(7, m.sender, m.content, m.readers)
		if err != nil {
			t.Fatalf("NewMessage: %v", err)
		}
		if _, err := repo.CreateMessage(ctx, *msg); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}
}

func TestReadMessageMarksUnreadForCaller(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	seedMessages(t, repo)
	uc := NewReadMessageUseCase(repo)

	msgs, err := uc.Execute(context.Background(), ReadMessageInput{ConversationID: 7, UserID: bob, Limit: 10})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Content != "three" {
		t.Fatalf("messages = %+v, want newest first", msgs)
	}
	for _, m := range msgs {
		if m.SenderID != bob && !m.ReadBy.Has(bob) {
			t.Fatalf("message %d not marked read for bob", m.ID)
		}
		if m.SenderID == bob && m.ReadBy.Has(bob) {
			t.Fatalf("own message %d marked read", m.ID)
		}
	}
	// "three" already had bob, "two" is bob's own
	if len(repo.appendArgs) != 1 || !slices.Equal(repo.appendArgs[0], []int64{1}) {
		t.Fatalf("AppendReader args = %v, want [[1]]", repo.appendArgs)
	}

	if _, err := uc.Execute(context.Background(), ReadMessageInput{ConversationID: 7, UserID: bob, Limit: 10}); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if len(repo.appendArgs) != 1 {
		t.Fatalf("second read appended again: %v", repo.appendArgs)
	}
}

func TestReadMessageZeroLimitMarksNothing(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	seedMessages(t, repo)
	uc := NewReadMessageUseCase(repo)

	msgs, err := uc.Execute(context.Background(), ReadMessageInput{ConversationID: 7, UserID: bob, Limit: 0})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("messages = %#v, want empty page", msgs)
	}
	if len(repo.appendArgs) != 0 {
		t.Fatalf("AppendReader args = %v, want none", repo.appendArgs)
	}
	for _, m := range repo.stored() {
		if m.ReadBy.Has(bob) && m.Content != "three" {
			t.Fatalf("message %d marked read by bob", m.ID)
		}
	}
}

func TestReadMessageRejectsNegativePaging(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	uc := NewReadMessageUseCase(repo)

	for _, in := range []ReadMessageInput{
		{ConversationID: 7, UserID: bob, Limit: -1},
		{ConversationID: 7, UserID: bob, Limit: 5, Offset: -1},
	} {
		if _, err := uc.Execute(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestReadMessageRejectsOutsiders(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	uc := NewReadMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), ReadMessageInput{ConversationID: 7, UserID: carol})
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestReadMessagePersistenceFailure(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	seedMessages(t, repo)
	repo.appendErr = errStorageDown

	_, err := NewReadMessageUseCase(repo).Execute(context.Background(), ReadMessageInput{ConversationID: 7, UserID: bob, Limit: 10})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

func TestVerifyMembership(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	uc := NewVerifyMembershipUseCase(repo)

	for _, id := range []int64{alice, bob} {
		if err := uc.Execute(context.Background(), VerifyMembershipInput{ConversationID: 7, UserID: id}); err != nil {
			t.Fatalf("member %d: %v", id, err)
		}
	}
	if err := uc.Execute(context.Background(), VerifyMembershipInput{ConversationID: 7, UserID: carol}); !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("outsider err = %v", err)
	}
	if err := uc.Execute(context.Background(), VerifyMembershipInput{ConversationID: 99, UserID: alice}); !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("missing conversation err = %v", err)
	}
	if err := uc.Execute(context.Background(), VerifyMembershipInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty input err = %v", err)
	}
}

func TestCreateChatPicksType(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewCreateChatUseCase(repo)

	direct, err := uc.Execute(context.Background(), CreateChatInput{CreatorID: alice, Name: "dm", ParticipantIDs: []int64{bob, bob, alice}})
	if err != nil {
		t.Fatalf("create direct: %v", err)
	}
	if direct.Conversation.Type != chat.ChatTypeDirect || !slices.Equal(direct.ParticipantIDs, []int64{bob}) {
		t.Fatalf("direct = %+v", direct)
	}

	group, err := uc.Execute(context.Background(), CreateChatInput{CreatorID: alice, Name: "team", ParticipantIDs: []int64{carol, bob}})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if group.Conversation.Type != chat.ChatTypeGroup {
		t.Fatalf("type = %v, want group", group.Conversation.Type)
	}
}

func TestCreateChatValidation(t *testing.T) {
	uc := NewCreateChatUseCase(newFakeChatRepo())
	for _, in := range []CreateChatInput{
		{CreatorID: alice, Name: "", ParticipantIDs: []int64{bob}},
		{CreatorID: alice, Name: "x"},
		{CreatorID: alice, Name: "x", ParticipantIDs: []int64{alice}},
		{CreatorID: alice, Name: "x", ParticipantIDs: []int64{0}},
	} {
		if _, err := uc.Execute(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Execute(%+v) err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestAddParticipantCreatorOnly(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	uc := NewAddParticipantUseCase(repo)

	if err := uc.Execute(context.Background(), AddParticipantInput{ConversationID: 7, ActorID: bob, UserID: carol}); !errors.Is(err, chat.ErrNotCreator) {
		t.Fatalf("err = %v, want ErrNotCreator", err)
	}
	if err := uc.Execute(context.Background(), AddParticipantInput{ConversationID: 7, ActorID: alice, UserID: carol}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := uc.Execute(context.Background(), AddParticipantInput{ConversationID: 7, ActorID: alice, UserID: carol}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	c, _ := repo.GetChat(context.Background(), 7)
	if !slices.Equal(c.ParticipantIDs, []int64{bob, carol}) {
		t.Fatalf("participants = %v", c.ParticipantIDs)
	}
	if err := uc.Execute(context.Background(), AddParticipantInput{ConversationID: 99, ActorID: alice, UserID: carol}); !errors.Is(err, chat.ErrConversationNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestListParticipants(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	uc := NewListParticipantsUseCase(repo)

	c, err := uc.Execute(context.Background(), ListParticipantsInput{ConversationID: 7, UserID: bob})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !slices.Equal(c.MemberIDs(), []int64{alice, bob}) {
		t.Fatalf("members = %v", c.MemberIDs())
	}
	if _, err := uc.Execute(context.Background(), ListParticipantsInput{ConversationID: 7, UserID: carol}); !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("outsider err = %v", err)
	}
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	seedMessages(t, repo)
	uc := NewDeleteMessageUseCase(repo)

	if err := uc.Execute(context.Background(), DeleteMessageInput{MessageID: 1, UserID: bob}); err != nil {
		t.Fatalf("delete other: %v", err)
	}
	if len(repo.stored()) != 3 {
		t.Fatal("message of another sender was deleted")
	}
	if err := uc.Execute(context.Background(), DeleteMessageInput{MessageID: 1, UserID: alice}); err != nil {
		t.Fatalf("delete own: %v", err)
	}
	if err := uc.Execute(context.Background(), DeleteMessageInput{MessageID: 1, UserID: alice}); err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if len(repo.stored()) != 2 {
		t.Fatalf("stored = %d, want 2", len(repo.stored()))
	}
}

func TestListChatsForMember(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(1, alice, bob)
	repo.addChat(2, bob, carol)
	repo.addChat(3, carol, alice)
	uc := NewListChatsUseCase(repo)

	convs, err := uc.Execute(context.Background(), ListChatsInput{UserID: alice, Limit: 10})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(convs) != 2 || convs[0].ID != 1 || convs[1].ID != 3 {
		t.Fatalf("chats = %+v, want 1 and 3 ascending", convs)
	}

	convs, err = uc.Execute(context.Background(), ListChatsInput{UserID: alice, Limit: 1, NewestFirst: true})
	if err != nil || len(convs) != 1 || convs[0].ID != 3 {
		t.Fatalf("newest first = %+v, err %v", convs, err)
	}

	convs, err = uc.Execute(context.Background(), ListChatsInput{UserID: alice, Limit: 0})
	if err != nil || convs == nil || len(convs) != 0 {
		t.Fatalf("zero limit = %#v, err %v", convs, err)
	}

	if _, err := uc.Execute(context.Background(), ListChatsInput{UserID: alice, Limit: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

type recordingCloser struct {
	closed []int64
	code   int
}

func (r *recordingCloser) CloseConversation(id int64, code int, _ string) int {
	r.closed = append(r.closed, id)
	r.code = code
	return 1
}

func TestDeleteChatCreatorOnly(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	seedMessages(t, repo)
	sessions := &recordingCloser{}
	uc := NewDeleteChatUseCase(repo, sessions)

	// a participant is not the owner, nothing happens
	if err := uc.Execute(context.Background(), DeleteChatInput{ConversationID: 7, UserID: bob}); err != nil {
		t.Fatalf("participant delete: %v", err)
	}
	if _, err := repo.GetChat(context.Background(), 7); err != nil {
		t.Fatalf("chat gone after participant delete: %v", err)
	}
	if len(sessions.closed) != 0 {
		t.Fatalf("sessions closed = %v, want none", sessions.closed)
	}

	if err := uc.Execute(context.Background(), DeleteChatInput{ConversationID: 7, UserID: alice}); err != nil {
		t.Fatalf("creator delete: %v", err)
	}
	if _, err := repo.GetChat(context.Background(), 7); !errors.Is(err, chat.ErrConversationNotFound) {
		t.Fatalf("GetChat err = %v, want ErrConversationNotFound", err)
	}
	if len(repo.stored()) != 0 {
		t.Fatalf("messages left = %d, want 0", len(repo.stored()))
	}
	if !slices.Equal(sessions.closed, []int64{7}) {
		t.Fatalf("sessions closed = %v, want [7]", sessions.closed)
	}

	// already gone
	if err := uc.Execute(context.Background(), DeleteChatInput{ConversationID: 7, UserID: alice}); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if len(sessions.closed) != 1 {
		t.Fatalf("sessions closed again: %v", sessions.closed)
	}
}

func TestDeleteChatPersistenceFailure(t *testing.T) {
	repo := newFakeChatRepo()
	repo.addChat(7, alice, bob)
	repo.deleteErr = errStorageDown

	err := NewDeleteChatUseCase(repo, nil).Execute(context.Background(), DeleteChatInput{ConversationID: 7, UserID: alice})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}
