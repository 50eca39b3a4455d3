package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/skillswap/skillswap/errs"
)

// Collections mirror the persisted layout: users/{uid}, sessions/{sessionId},
// chats/{chatId}/messages/{messageId} (messages carry their chat id).
const (
	CollectionUsers    = "users"
	CollectionSessions = "sessions"
	CollectionMessages = "messages"
)

const opTimeout = 30 * time.Second

// Store is the typed access layer over the document database. It is an
// explicitly constructed dependency, passed into every service; there is no
// package-level handle. All operations are bounded by a 30s timeout and fail
// with a typed error: NotFound, Unavailable, Timeout, or Conflict for a
// failed conditional transition.
type Store struct {
	db  *gorm.DB
	bus *Bus
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, bus: NewBus()}
}

// Watch subscribes to change notifications for a collection. Each signal
// means "re-run your query"; emissions downstream are full snapshots, not
// diffs. The subscription ends when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, collection string) <-chan struct{} {
	return s.bus.Subscribe(ctx, collection)
}

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// wrap translates driver errors into the typed taxonomy. Timeout is kept
// distinct from Unavailable so callers can retry it; a caller-initiated
// cancellation is not a timeout and must not invite a retry of abandoned
// work.
func wrap(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.E(errs.NotFound, what+" not found")
	case errors.Is(err, context.DeadlineExceeded):
		return errs.E(errs.Timeout, what, err)
	default:
		return errs.E(errs.Unavailable, what, err)
	}
}
