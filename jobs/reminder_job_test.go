package jobs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/store"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	fail  map[string]bool
	calls int
}

func (r *recordingSender) Send(toName, toEmail, subject, html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail[toEmail] {
		return fmt.Errorf("smtp relay refused %s", toEmail)
	}
	r.sent = append(r.sent, toEmail)
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}, &models.Message{}))
	return store.New(db)
}

func seedUser(t *testing.T, s *store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "x",
		DisplayName:  name,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedUpcoming(t *testing.T, s *store.Store, a, b uuid.UUID, start time.Time) *models.Session {
	t.Helper()
	session := &models.Session{
		ID:              uuid.New(),
		ParticipantA:    a,
		ParticipantB:    b,
		Skill:           "Go",
		StartTime:       start,
		DurationMinutes: 30,
		Status:          models.SessionUpcoming,
		MeetingLink:     "https://meet.jit.si/SkillSwapRoom" + uuid.NewString(),
		CreatedBy:       a,
	}
	require.NoError(t, s.CreateSession(context.Background(), session))
	return session
}

func TestSweepSendsOncePerParticipant(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()
	a, b := seedUser(t, st, "Alice"), seedUser(t, st, "Bob")
	session := seedUpcoming(t, st, a.ID, b.ID, now.Add(30*time.Minute))

	sender := &recordingSender{}
	job := &ReminderJob{Store: st, Email: sender, Now: func() time.Time { return now }}

	job.Run()
	assert.ElementsMatch(t, []string{a.Email, b.Email}, sender.sent)

	got, err := st.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)

	// Re-running the sweep finds nothing due and sends nothing more.
	job.Run()
	assert.Len(t, sender.sent, 2)
}

func TestSweepSkipsOutOfWindowAndNonUpcoming(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()
	a, b := seedUser(t, st, "Alice"), seedUser(t, st, "Bob")

	seedUpcoming(t, st, a.ID, b.ID, now.Add(2*time.Hour)) // beyond window

	cancelled := seedUpcoming(t, st, a.ID, b.ID, now.Add(30*time.Minute))
	require.NoError(t, st.TransitionSession(context.Background(), cancelled.ID,
		[]string{models.SessionUpcoming}, models.SessionCancelled))

	sender := &recordingSender{}
	job := &ReminderJob{Store: st, Email: sender, Now: func() time.Time { return now }}
	job.Run()

	assert.Empty(t, sender.sent)
}

func TestSweepPartialFailureLeavesSessionDue(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()
	a, b := seedUser(t, st, "Alice"), seedUser(t, st, "Bob")
	c, d := seedUser(t, st, "Carol"), seedUser(t, st, "Dave")

	failing := seedUpcoming(t, st, a.ID, b.ID, now.Add(10*time.Minute))
	healthy := seedUpcoming(t, st, c.ID, d.ID, now.Add(20*time.Minute))

	sender := &recordingSender{fail: map[string]bool{b.Email: true}}
	job := &ReminderJob{Store: st, Email: sender, Now: func() time.Time { return now }}
	job.Run()

	// The healthy session got both emails despite its neighbour failing.
	assert.Contains(t, sender.sent, c.Email)
	assert.Contains(t, sender.sent, d.Email)

	got, err := st.GetSession(context.Background(), failing.ID)
	require.NoError(t, err)
	assert.False(t, got.ReminderSent, "a partially-notified session stays due")

	got, err = st.GetSession(context.Background(), healthy.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)

	// Next sweep retries only the failed session.
	sender.mu.Lock()
	delete(sender.fail, b.Email)
	sender.mu.Unlock()
	job.Run()

	got, err = st.GetSession(context.Background(), failing.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)
}
