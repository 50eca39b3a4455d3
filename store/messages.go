package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap/models"
)

func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return wrap(err, "creating message")
	}
	s.bus.Publish(CollectionMessages)
	return nil
}

// ListMessages returns the full conversation history, oldest first.
func (s *Store) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		return nil, wrap(err, "listing messages")
	}
	return messages, nil
}

// LastMessage returns the newest message in a conversation, or nil when the
// conversation has no messages yet.
func (s *Store) LastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var msg models.Message
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at desc").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err, "last message")
	}
	return &msg, nil
}

// CountUnread counts messages in a conversation that self has not read,
// i.e. unread messages from the other participant.
func (s *Store) CountUnread(ctx context.Context, chatID string, self uuid.UUID) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND read = ?", chatID, self, false).
		Count(&n).Error
	if err != nil {
		return 0, wrap(err, "counting unread")
	}
	return n, nil
}

// MarkMessagesRead flips read on every message in the conversation not sent
// by self. A single statement keeps the batch atomic: it either applies to
// the whole unread set or fails as a unit.
func (s *Store) MarkMessagesRead(ctx context.Context, chatID string, self uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND read = ?", chatID, self, false).
		Update("read", true)
	if res.Error != nil {
		return wrap(res.Error, "marking messages read")
	}
	if res.RowsAffected > 0 {
		s.bus.Publish(CollectionMessages)
	}
	return nil
}
