package models

import (
	"time"

	"github.com/google/uuid"
)

// SkillList is stored as a JSON array. Skill names are case-sensitive and
// deduplicated on write, never normalized.
type SkillList []string

// Contains reports an exact-match membership test.
func (s SkillList) Contains(skill string) bool {
	for _, v := range s {
		if v == skill {
			return true
		}
	}
	return false
}

// Overlap returns the skills present in both lists, in s's order.
func (s SkillList) Overlap(other SkillList) SkillList {
	var shared SkillList
	for _, v := range s {
		if other.Contains(v) {
			shared = append(shared, v)
		}
	}
	return shared
}

// Dedupe suppresses duplicates while preserving first-seen order.
func (s SkillList) Dedupe() SkillList {
	seen := make(map[string]bool, len(s))
	out := make(SkillList, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Availability maps "{day}_{slot}" keys (7 days x morning/afternoon/evening)
// to whether the user is free then.
type Availability map[string]bool

var availabilityDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
var availabilitySlots = []string{"morning", "afternoon", "evening"}

// ValidAvailabilityKey reports whether key is one of the 21 fixed keys.
func ValidAvailabilityKey(key string) bool {
	for _, d := range availabilityDays {
		for _, s := range availabilitySlots {
			if key == d+"_"+s {
				return true
			}
		}
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"size:255;not null;unique" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DisplayName  string    `gorm:"size:255;not null" json:"display_name"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	Bio          string    `gorm:"type:text" json:"bio"`

	SkillsToTeach SkillList    `gorm:"serializer:json" json:"skills_to_teach"`
	SkillsToLearn SkillList    `gorm:"serializer:json" json:"skills_to_learn"`
	Availability  Availability `gorm:"serializer:json" json:"availability"`

	ProfilePhotoURL string `gorm:"size:512" json:"profile_photo_url"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
