package services

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/store"
	"github.com/skillswap/skillswap/utils"
)

const chatIDSeparator = "_"

// ChatID derives the conversation identifier for an unordered pair of users:
// the two ids sorted lexicographically and joined. Pure and commutative, so
// both participants always land on the same conversation regardless of who
// initiates.
func ChatID(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return strings.Join(ids, chatIDSeparator)
}

// ChatParticipants parses a chat id back into its two member ids.
func ChatParticipants(chatID string) (uuid.UUID, uuid.UUID, error) {
	parts := strings.Split(chatID, chatIDSeparator)
	if len(parts) != 2 {
		return uuid.Nil, uuid.Nil, errs.E(errs.Invalid, "malformed chat id")
	}
	a, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, errs.E(errs.Invalid, "malformed chat id")
	}
	b, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, errs.E(errs.Invalid, "malformed chat id")
	}
	return a, b, nil
}

// Conversation is one entry in a user's conversation list: the other
// participant plus last-message and unread summaries.
type Conversation struct {
	ChatID          string          `json:"chat_id"`
	PartnerID       uuid.UUID       `json:"partner_id"`
	PartnerName     string          `json:"partner_name"`
	PartnerPhotoURL string          `json:"partner_photo_url"`
	LastMessage     *models.Message `json:"last_message"`
	Unread          int64           `json:"unread"`
}

// ChatService manages conversations and their messages. Conversations are
// derived from sessions: a pair of users can message each other only if a
// session has ever existed between them.
type ChatService struct {
	store *store.Store
}

func NewChatService(s *store.Store) *ChatService {
	return &ChatService{store: s}
}

// ListConversations derives the caller's conversation list from the
// sessions collection, one entry per distinct other-participant, most
// recent activity first.
func (c *ChatService) ListConversations(ctx context.Context, self uuid.UUID) ([]Conversation, error) {
	sessions, err := c.store.ListSessionsFor(ctx, self)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	conversations := []Conversation{}
	for _, session := range sessions {
		other := session.OtherParticipant(self)
		if seen[other] {
			continue
		}
		seen[other] = true

		conv := Conversation{
			ChatID:      ChatID(self, other),
			PartnerID:   other,
			PartnerName: PlaceholderPartnerName,
		}
		if partner, err := c.store.GetUser(ctx, other); err == nil {
			conv.PartnerName = partner.DisplayName
			conv.PartnerPhotoURL = partner.ProfilePhotoURL
			if conv.PartnerPhotoURL == "" {
				conv.PartnerPhotoURL = utils.PlaceholderAvatarURL(partner.DisplayName)
			}
		} else {
			log.Printf("Could not resolve conversation partner %s: %v", other, err)
		}

		last, err := c.store.LastMessage(ctx, conv.ChatID)
		if err != nil {
			return nil, err
		}
		conv.LastMessage = last

		unread, err := c.store.CountUnread(ctx, conv.ChatID, self)
		if err != nil {
			return nil, err
		}
		conv.Unread = unread

		conversations = append(conversations, conv)
	}

	// Most recently active first; conversations with no messages sink.
	sort.SliceStable(conversations, func(i, j int) bool {
		li, lj := conversations[i].LastMessage, conversations[j].LastMessage
		switch {
		case li == nil:
			return false
		case lj == nil:
			return true
		default:
			return li.CreatedAt.After(lj.CreatedAt)
		}
	})
	return conversations, nil
}

// requireMember checks that self is one of the chat's two members and that
// at least one session, in any status, has ever existed between the pair.
// Both failures read as PermissionDenied: a chat id is derivable for any
// pair of ids, so the session check is what actually gates messaging.
func (c *ChatService) requireMember(ctx context.Context, chatID string, self uuid.UUID) error {
	a, b, err := ChatParticipants(chatID)
	if err != nil {
		return err
	}
	if self != a && self != b {
		return errs.E(errs.PermissionDenied, "you are not a member of this conversation")
	}
	exists, err := c.store.SessionPairExists(ctx, a, b)
	if err != nil {
		return err
	}
	if !exists {
		return errs.E(errs.PermissionDenied, "no conversation exists between these users")
	}
	return nil
}

// SendMessage appends a message to a conversation. The text must be
// non-blank and the sender must pass the membership gate; the read flag
// starts false and the timestamp is assigned at the store.
func (c *ChatService) SendMessage(ctx context.Context, chatID string, sender uuid.UUID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.E(errs.Invalid, "message text is required")
	}
	if err := c.requireMember(ctx, chatID, sender); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:       uuid.New(),
		ChatID:   chatID,
		SenderID: sender,
		Text:     text,
		Read:     false,
	}
	if err := c.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages returns the full conversation history, oldest first. Only a
// member may read it.
func (c *ChatService) Messages(ctx context.Context, chatID string, self uuid.UUID) ([]models.Message, error) {
	if err := c.requireMember(ctx, chatID, self); err != nil {
		return nil, err
	}
	return c.store.ListMessages(ctx, chatID)
}

// MarkRead flips the read flag on everything the other member sent, as one
// atomic batch. A failure surfaces; it is never treated as success.
func (c *ChatService) MarkRead(ctx context.Context, chatID string, self uuid.UUID) error {
	if err := c.requireMember(ctx, chatID, self); err != nil {
		return err
	}
	return c.store.MarkMessagesRead(ctx, chatID, self)
}

// UnreadCount counts unread messages from the other member.
func (c *ChatService) UnreadCount(ctx context.Context, chatID string, self uuid.UUID) (int64, error) {
	if err := c.requireMember(ctx, chatID, self); err != nil {
		return 0, err
	}
	return c.store.CountUnread(ctx, chatID, self)
}

// StreamMessages opens a live subscription on a conversation. Every
// emission is the full current message list, re-queried on each change
// signal; each snapshot also triggers a read-marking pass, so merely holding
// the stream open mutates store state (that is the contract of an open
// conversation view, not an accident). The stream ends when ctx is
// cancelled — callers own the cancel and leak the subscription otherwise.
func (c *ChatService) StreamMessages(ctx context.Context, chatID string, self uuid.UUID) (<-chan []models.Message, error) {
	if _, err := c.Messages(ctx, chatID, self); err != nil {
		return nil, err
	}

	changes := c.store.Watch(ctx, store.CollectionMessages)
	out := make(chan []models.Message, 1)

	emit := func() bool {
		msgs, err := c.store.ListMessages(ctx, chatID)
		if err != nil {
			log.Printf("Error loading messages for %s: %v", chatID, err)
			return true
		}
		select {
		case out <- msgs:
		case <-ctx.Done():
			return false
		}
		if err := c.store.MarkMessagesRead(ctx, chatID, self); err != nil {
			log.Printf("Error marking messages read for %s: %v", chatID, err)
		}
		return true
	}

	go func() {
		defer close(out)
		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()
	return out, nil
}
