package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/store"
)

func TestChatIDCommutative(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, ChatID(a, b), ChatID(b, a))

	x, y, err := ChatParticipants(ChatID(a, b))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, []uuid.UUID{x, y})
}

func TestChatParticipantsMalformed(t *testing.T) {
	for _, id := range []string{"", "abc", "a_b_c", "notauuid_" + uuid.NewString()} {
		_, _, err := ChatParticipants(id)
		assert.True(t, errs.Is(err, errs.Invalid), "chat id %q", id)
	}
}

func seedChat(t *testing.T, st *store.Store) (*ChatService, *models.User, *models.User, string) {
	t.Helper()
	a := seedUser(t, st, "Alice", models.SkillList{"Go"}, nil)
	b := seedUser(t, st, "Bob", nil, models.SkillList{"Go"})
	seedSessionBetween(t, st, a.ID, b.ID)
	return NewChatService(st), a, b, ChatID(a.ID, b.ID)
}

// seedSessionBetween opens messaging between the pair: conversations only
// exist where a session does.
func seedSessionBetween(t *testing.T, st *store.Store, a, b uuid.UUID) {
	t.Helper()
	require.NoError(t, st.CreateSession(context.Background(), &models.Session{
		ID:              uuid.New(),
		ParticipantA:    a,
		ParticipantB:    b,
		Skill:           "Go",
		StartTime:       time.Now().Add(time.Hour),
		DurationMinutes: 30,
		Status:          models.SessionPending,
		MeetingLink:     "https://meet.jit.si/SkillSwapRoom" + uuid.NewString(),
		CreatedBy:       a,
	}))
}

func TestMessagingRequiresSharedSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewChatService(st)
	ctx := context.Background()

	a := seedUser(t, st, "Alice", models.SkillList{"Go"}, nil)
	b := seedUser(t, st, "Bob", nil, nil)
	chatID := ChatID(a.ID, b.ID)

	// The chat id is derivable for any pair, but with no session between
	// them every conversation operation is refused.
	_, err := svc.SendMessage(ctx, chatID, a.ID, "hello stranger")
	assert.True(t, errs.Is(err, errs.PermissionDenied))

	_, err = svc.Messages(ctx, chatID, a.ID)
	assert.True(t, errs.Is(err, errs.PermissionDenied))

	err = svc.MarkRead(ctx, chatID, a.ID)
	assert.True(t, errs.Is(err, errs.PermissionDenied))

	_, err = svc.UnreadCount(ctx, chatID, a.ID)
	assert.True(t, errs.Is(err, errs.PermissionDenied))

	_, err = svc.StreamMessages(ctx, chatID, a.ID)
	assert.True(t, errs.Is(err, errs.PermissionDenied))

	convs, err := svc.ListConversations(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, convs, "no orphaned conversation may appear")

	// A session in any status opens the conversation.
	seedSessionBetween(t, st, a.ID, b.ID)
	_, err = svc.SendMessage(ctx, chatID, a.ID, "hello partner")
	require.NoError(t, err)
}

func TestSendMessageRules(t *testing.T) {
	st := newTestStore(t)
	svc, a, _, chatID := seedChat(t, st)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, chatID, a.ID, "   ")
	assert.True(t, errs.Is(err, errs.Invalid))

	_, err = svc.SendMessage(ctx, chatID, uuid.New(), "hi")
	assert.True(t, errs.Is(err, errs.PermissionDenied))

	msg, err := svc.SendMessage(ctx, chatID, a.ID, "hi Bob")
	require.NoError(t, err)
	assert.False(t, msg.Read)
	assert.Equal(t, chatID, msg.ChatID)
}

func TestUnreadArithmetic(t *testing.T) {
	st := newTestStore(t)
	svc, a, b, chatID := seedChat(t, st)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.SendMessage(ctx, chatID, a.ID, text)
		require.NoError(t, err)
	}
	_, err := svc.SendMessage(ctx, chatID, b.ID, "reply")
	require.NoError(t, err)

	// Sending never affects the sender's own unread count.
	n, err := svc.UnreadCount(ctx, chatID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.UnreadCount(ctx, chatID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, svc.MarkRead(ctx, chatID, b.ID))

	n, err = svc.UnreadCount(ctx, chatID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// Alice's unread reply is untouched by Bob's read pass.
	n, err = svc.UnreadCount(ctx, chatID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMessagesMembershipRequired(t *testing.T) {
	st := newTestStore(t)
	svc, a, _, chatID := seedChat(t, st)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, chatID, a.ID, "hello")
	require.NoError(t, err)

	_, err = svc.Messages(ctx, chatID, uuid.New())
	assert.True(t, errs.Is(err, errs.PermissionDenied))

	err = svc.MarkRead(ctx, chatID, uuid.New())
	assert.True(t, errs.Is(err, errs.PermissionDenied))
}

func TestListConversationsDerivedFromSessions(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()
	sessions := newSessionService(st, now)
	chats := NewChatService(st)
	ctx := context.Background()

	alice := seedUser(t, st, "Alice", models.SkillList{"Go"}, nil)
	bob := seedUser(t, st, "Bob", nil, nil)
	carol := seedUser(t, st, "Carol", nil, nil)

	// Two sessions with Bob must still yield a single conversation.
	for i := 0; i < 2; i++ {
		_, err := sessions.Create(ctx, CreateSessionParams{
			CreatedBy: alice.ID, PartnerID: bob.ID, Skill: "Go",
			StartTime: now.Add(time.Duration(i+1) * time.Hour), DurationMinutes: 30,
		})
		require.NoError(t, err)
	}
	_, err := sessions.Create(ctx, CreateSessionParams{
		CreatedBy: alice.ID, PartnerID: carol.ID, Skill: "Go",
		StartTime: now.Add(time.Hour), DurationMinutes: 30,
	})
	require.NoError(t, err)

	_, err = chats.SendMessage(ctx, ChatID(alice.ID, carol.ID), carol.ID, "hey")
	require.NoError(t, err)

	convs, err := chats.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	// Carol's conversation has activity, so it sorts first; Bob's has no
	// messages yet.
	assert.Equal(t, carol.ID, convs[0].PartnerID)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "hey", convs[0].LastMessage.Text)
	assert.Equal(t, int64(1), convs[0].Unread)

	assert.Equal(t, bob.ID, convs[1].PartnerID)
	assert.Nil(t, convs[1].LastMessage)
	assert.Equal(t, int64(0), convs[1].Unread)
	assert.Equal(t, "Bob", convs[1].PartnerName)
}

func TestStreamMessagesSnapshots(t *testing.T) {
	st := newTestStore(t)
	svc, a, b, chatID := seedChat(t, st)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := svc.SendMessage(context.Background(), chatID, a.ID, "first")
	require.NoError(t, err)

	stream, err := svc.StreamMessages(ctx, chatID, b.ID)
	require.NoError(t, err)

	// Initial snapshot carries existing history and marks it read.
	snap := recvSnapshot(t, stream)
	require.Len(t, snap, 1)
	assert.Equal(t, "first", snap[0].Text)

	assert.Eventually(t, func() bool {
		n, err := svc.UnreadCount(context.Background(), chatID, b.ID)
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)

	_, err = svc.SendMessage(context.Background(), chatID, a.ID, "second")
	require.NoError(t, err)

	// A later snapshot must contain both messages. Intermediate snapshots
	// triggered by the read-marking write may arrive first.
	assert.Eventually(t, func() bool {
		select {
		case snap, ok := <-stream:
			return ok && len(snap) == 2
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-stream
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStreamMessagesMembershipRequired(t *testing.T) {
	st := newTestStore(t)
	svc, _, _, chatID := seedChat(t, st)

	_, err := svc.StreamMessages(context.Background(), chatID, uuid.New())
	assert.True(t, errs.Is(err, errs.PermissionDenied))
}

func recvSnapshot(t *testing.T, stream <-chan []models.Message) []models.Message {
	t.Helper()
	select {
	case snap, ok := <-stream:
		require.True(t, ok, "stream closed before snapshot")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
