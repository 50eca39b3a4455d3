package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
)

const roomTokenBytes = 9

// GenerateMeetingLink mints a fresh Jitsi room link. The room token is
// random, so repeated calls never collide; a session's link is generated
// once at creation and never regenerated.
func GenerateMeetingLink() (string, error) {
	b := make([]byte, roomTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating room token: %w", err)
	}
	return fmt.Sprintf("https://meet.jit.si/SkillSwapRoom%s", hex.EncodeToString(b)), nil
}

// GenerateResetToken mints an opaque password-reset token.
func GenerateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// PlaceholderAvatarURL returns the generated avatar used when a user has no
// profile photo, keyed by display name.
func PlaceholderAvatarURL(displayName string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=4F46E5&color=fff", url.QueryEscape(displayName))
}
