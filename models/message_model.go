package models

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to the conversation identified by ChatID, the sorted join
// of the two participant ids. Read flips false to true exactly once, and
// only ever by the recipient.
type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ChatID   string    `gorm:"size:128;not null;index" json:"chat_id"`
	SenderID uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Read     bool      `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
