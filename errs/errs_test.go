package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Conflict, KindOf(E(Conflict, "stale transition")))
	assert.Equal(t, Internal, KindOf(errors.New("plain")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading session: %w", E(NotFound, "session"))
	assert.Equal(t, NotFound, KindOf(err))
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, Conflict))
}

func TestMessageComposition(t *testing.T) {
	inner := errors.New("connection refused")
	err := E(Unavailable, "users query", inner)
	assert.Equal(t, "users query: connection refused", err.Error())
	assert.True(t, errors.Is(err, inner))

	assert.Equal(t, "timeout", E(Timeout).Error())
	assert.Equal(t, "skill is required", Ef(Invalid, "%s is required", "skill").Error())
}
