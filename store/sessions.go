package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/models"
)

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return wrap(err, "creating session")
	}
	s.bus.Publish(CollectionSessions)
	return nil
}

func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "session")
	}
	return &session, nil
}

// ListSessionsFor returns every session uid participates in, newest start
// first.
func (s *Store) ListSessionsFor(ctx context.Context, uid uuid.UUID) ([]models.Session, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", uid, uid).
		Order("start_time desc").
		Find(&sessions).Error
	if err != nil {
		return nil, wrap(err, "listing sessions")
	}
	return sessions, nil
}

// ListUpcomingFor returns uid's upcoming sessions starting within [from, to],
// soonest first. The participant predicate runs in the store, not in memory.
func (s *Store) ListUpcomingFor(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]models.Session, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("status = ? AND start_time >= ? AND start_time <= ?", models.SessionUpcoming, from, to).
		Where("participant_a = ? OR participant_b = ?", uid, uid).
		Order("start_time asc").
		Find(&sessions).Error
	if err != nil {
		return nil, wrap(err, "listing upcoming sessions")
	}
	return sessions, nil
}

// ListDueForReminder is the sweep query: upcoming sessions starting within
// [from, to] whose reminder has not yet been sent, ascending by start time.
func (s *Store) ListDueForReminder(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("status = ? AND start_time >= ? AND start_time <= ?", models.SessionUpcoming, from, to).
		Where("reminder_sent = ?", false).
		Order("start_time asc").
		Find(&sessions).Error
	if err != nil {
		return nil, wrap(err, "listing sessions due for reminder")
	}
	return sessions, nil
}

// SessionPairExists reports whether any session, in any status, has ever
// existed between the two users. Messaging eligibility hangs off this.
func (s *Store) SessionPairExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("(participant_a = ? AND participant_b = ?) OR (participant_a = ? AND participant_b = ?)",
			a, b, b, a).
		Count(&n).Error
	if err != nil {
		return false, wrap(err, "checking session pair")
	}
	return n > 0, nil
}

// TransitionSession applies a conditional status write: the update only
// lands if the stored status is one of fromStatuses. A lost race surfaces
// as Conflict so the caller can re-fetch instead of silently clobbering the
// peer's write.
func (s *Store) TransitionSession(ctx context.Context, id uuid.UUID, fromStatuses []string, to string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND status IN ?", id, fromStatuses).
		Update("status", to)
	if res.Error != nil {
		return wrap(res.Error, "session transition")
	}
	if res.RowsAffected == 0 {
		var current models.Session
		if err := s.db.WithContext(ctx).First(&current, "id = ?", id).Error; err != nil {
			return wrap(err, "session")
		}
		return errs.Ef(errs.Conflict, "session is %s, cannot move to %s", current.Status, to)
	}
	s.bus.Publish(CollectionSessions)
	return nil
}

// MarkReminderSent flips reminder_sent false to true. The guard keeps the
// flag one-way and makes overlapping sweeps send at most once.
func (s *Store) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Update("reminder_sent", true)
	if res.Error != nil {
		return wrap(res.Error, "marking reminder sent")
	}
	if res.RowsAffected == 0 {
		return errs.E(errs.Conflict, "reminder already sent")
	}
	s.bus.Publish(CollectionSessions)
	return nil
}
