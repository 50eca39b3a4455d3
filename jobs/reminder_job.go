package jobs

import (
	"context"
	"log"
	"time"

	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/notifications"
	"github.com/skillswap/skillswap/store"
)

// ReminderWindow is how far ahead of start time a session becomes due for
// its one reminder.
const ReminderWindow = 60 * time.Minute

// ReminderJob is the periodic sweep over sessions starting soon. It is
// stateless between runs: the reminder_sent flag on the session document is
// the only memory, so overlapping or repeated sweeps send at most one
// reminder per participant per session.
type ReminderJob struct {
	Store *store.Store
	Email notifications.Sender
	Now   func() time.Time
}

func NewReminderJob(s *store.Store, email notifications.Sender) *ReminderJob {
	return &ReminderJob{Store: s, Email: email, Now: time.Now}
}

// Run executes one sweep. Registered with cron, so it takes no arguments
// and reports nothing; per-session failures are logged and isolated.
func (j *ReminderJob) Run() {
	log.Println("Running job: SendSessionReminders...")

	ctx := context.Background()
	now := j.Now()

	sessions, err := j.Store.ListDueForReminder(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}
	if len(sessions) == 0 {
		return
	}

	sent := 0
	for _, session := range sessions {
		// Each session is processed independently; one failure must not
		// abort the sweep for the rest.
		if err := j.remind(ctx, session); err != nil {
			log.Printf("Error sending reminder for session %s: %v", session.ID, err)
			continue
		}
		sent++
	}
	log.Printf("Sent reminders for %d session(s)", sent)
}

// remind dispatches one reminder to each participant, then flips
// reminder_sent. The flag is only set after both dispatches succeed, so a
// partial failure leaves the session due for retry on the next sweep.
func (j *ReminderJob) remind(ctx context.Context, session models.Session) error {
	a, err := j.Store.GetUser(ctx, session.ParticipantA)
	if err != nil {
		return err
	}
	b, err := j.Store.GetUser(ctx, session.ParticipantB)
	if err != nil {
		return err
	}

	subject, html := notifications.ReminderEmail(a.DisplayName, session.Skill, b.DisplayName,
		session.StartTime, session.DurationMinutes, session.MeetingLink)
	if err := j.Email.Send(a.DisplayName, a.Email, subject, html); err != nil {
		return err
	}

	subject, html = notifications.ReminderEmail(b.DisplayName, session.Skill, a.DisplayName,
		session.StartTime, session.DurationMinutes, session.MeetingLink)
	if err := j.Email.Send(b.DisplayName, b.Email, subject, html); err != nil {
		return err
	}

	return j.Store.MarkReminderSent(ctx, session.ID)
}
