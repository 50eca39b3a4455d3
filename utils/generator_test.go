package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMeetingLinkUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		link, err := GenerateMeetingLink()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link, "https://meet.jit.si/SkillSwapRoom"))
		assert.False(t, seen[link], "meeting link repeated: %s", link)
		seen[link] = true
	}
}

func TestPlaceholderAvatarURL(t *testing.T) {
	got := PlaceholderAvatarURL("Ada Lovelace")
	assert.Contains(t, got, "ui-avatars.com")
	assert.Contains(t, got, "Ada+Lovelace")
}
