package models

import (
	"time"

	"github.com/google/uuid"
)

// Session statuses. "completed" is derived at read time from StartTime and
// DurationMinutes; it is never written back to the store.
const (
	SessionPending   = "pending"
	SessionUpcoming  = "upcoming"
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// Session is a proposed or scheduled exchange between exactly two users.
// The participant columns carry an unordered pair; their storage order has
// no meaning beyond chat-id derivation.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ParticipantA uuid.UUID `gorm:"type:uuid;not null;index" json:"participant_a"`
	ParticipantB uuid.UUID `gorm:"type:uuid;not null;index" json:"participant_b"`

	Skill           string    `gorm:"size:255;not null" json:"skill"`
	StartTime       time.Time `gorm:"not null" json:"start_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Status          string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	MeetingLink  string    `gorm:"size:512;not null" json:"meeting_link"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	ReminderSent bool      `gorm:"not null;default:false" json:"reminder_sent"`
	Notes        string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasParticipant reports whether uid is one of the session's two users.
func (s *Session) HasParticipant(uid uuid.UUID) bool {
	return s.ParticipantA == uid || s.ParticipantB == uid
}

// OtherParticipant returns the participant that is not uid. Callers must
// check HasParticipant first.
func (s *Session) OtherParticipant(uid uuid.UUID) uuid.UUID {
	if s.ParticipantA == uid {
		return s.ParticipantB
	}
	return s.ParticipantA
}

// EndTime is StartTime plus the session duration.
func (s *Session) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// EffectiveStatus resolves the lazily-derived completion: an upcoming or
// active session whose end time has passed reads as completed without any
// store write.
func (s *Session) EffectiveStatus(now time.Time) string {
	if (s.Status == SessionUpcoming || s.Status == SessionActive) && now.After(s.EndTime()) {
		return SessionCompleted
	}
	return s.Status
}
