package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/store"
	"github.com/skillswap/skillswap/utils"
)

// PlaceholderPartnerName stands in when a participant reference cannot be
// resolved; the failure is swallowed so one bad reference never blocks a
// whole session list.
const PlaceholderPartnerName = "SkillSwap User"

// UpcomingWindow bounds the "upcoming sessions" dashboard query.
const UpcomingWindow = 7 * 24 * time.Hour

// SessionView is a session paired with the other participant's display
// identity and the lazily-derived status.
type SessionView struct {
	models.Session
	EffectiveStatus string `json:"effective_status"`
	PartnerName     string `json:"partner_name"`
	PartnerPhotoURL string `json:"partner_photo_url"`
}

// SessionList is one user's sessions categorized on load. Completed holds
// both stored-status matches and upcoming/active sessions whose end time has
// passed; no document is ever auto-written to completed.
type SessionList struct {
	Pending   []SessionView `json:"pending"`
	Upcoming  []SessionView `json:"upcoming"`
	Completed []SessionView `json:"completed"`
	Cancelled []SessionView `json:"cancelled"`
}

type CreateSessionParams struct {
	CreatedBy       uuid.UUID
	PartnerID       uuid.UUID
	Skill           string
	StartTime       time.Time
	DurationMinutes int
	Notes           string
}

// SessionService owns the session state machine. Every transition is a
// conditional write keyed on the expected prior status, so a concurrent
// transition by the peer surfaces as Conflict instead of a silent
// last-write-wins overwrite.
type SessionService struct {
	store *store.Store
	now   func() time.Time
}

func NewSessionService(s *store.Store) *SessionService {
	return &SessionService{store: s, now: time.Now}
}

// Create proposes a new session. Preconditions: both participants resolvable
// and distinct, start strictly in the future, positive duration, and a
// non-empty skill the creator actually teaches. The meeting link is minted
// here, once, and never regenerated.
func (s *SessionService) Create(ctx context.Context, p CreateSessionParams) (*models.Session, error) {
	if strings.TrimSpace(p.Skill) == "" {
		return nil, errs.E(errs.Invalid, "skill is required")
	}
	if p.DurationMinutes <= 0 {
		return nil, errs.E(errs.Invalid, "duration must be a positive number of minutes")
	}
	if !p.StartTime.After(s.now()) {
		return nil, errs.E(errs.Invalid, "session must be scheduled for a future time")
	}
	if p.CreatedBy == p.PartnerID {
		return nil, errs.E(errs.Invalid, "cannot schedule a session with yourself")
	}

	creator, err := s.store.GetUser(ctx, p.CreatedBy)
	if err != nil {
		return nil, err
	}
	if !creator.SkillsToTeach.Contains(p.Skill) {
		return nil, errs.Ef(errs.Invalid, "you do not teach %q", p.Skill)
	}
	if _, err := s.store.GetUser(ctx, p.PartnerID); err != nil {
		return nil, err
	}

	link, err := utils.GenerateMeetingLink()
	if err != nil {
		return nil, errs.E(errs.Internal, err)
	}

	session := &models.Session{
		ID:              uuid.New(),
		ParticipantA:    p.CreatedBy,
		ParticipantB:    p.PartnerID,
		Skill:           p.Skill,
		StartTime:       p.StartTime,
		DurationMinutes: p.DurationMinutes,
		Status:          models.SessionPending,
		MeetingLink:     link,
		CreatedBy:       p.CreatedBy,
		ReminderSent:    false,
		Notes:           p.Notes,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Accept moves pending to upcoming. Only the participant who did not propose
// the session may accept it.
func (s *SessionService) Accept(ctx context.Context, id, caller uuid.UUID) error {
	if err := s.requireRecipient(ctx, id, caller); err != nil {
		return err
	}
	return s.store.TransitionSession(ctx, id, []string{models.SessionPending}, models.SessionUpcoming)
}

// Decline moves pending to cancelled, callable only by the non-creating
// participant.
func (s *SessionService) Decline(ctx context.Context, id, caller uuid.UUID) error {
	if err := s.requireRecipient(ctx, id, caller); err != nil {
		return err
	}
	return s.store.TransitionSession(ctx, id, []string{models.SessionPending}, models.SessionCancelled)
}

// Join moves upcoming to active and returns the meeting link. Either
// participant may join; joining an already-active session is a no-op that
// still hands back the link.
func (s *SessionService) Join(ctx context.Context, id, caller uuid.UUID) (string, error) {
	session, err := s.requireParticipant(ctx, id, caller)
	if err != nil {
		return "", err
	}
	switch session.EffectiveStatus(s.now()) {
	case models.SessionActive:
		return session.MeetingLink, nil
	case models.SessionUpcoming:
	default:
		return "", errs.Ef(errs.Conflict, "session is %s, cannot join", session.EffectiveStatus(s.now()))
	}

	err = s.store.TransitionSession(ctx, id, []string{models.SessionUpcoming}, models.SessionActive)
	if errs.Is(err, errs.Conflict) {
		// The peer may have joined first; that still counts as joined.
		current, getErr := s.store.GetSession(ctx, id)
		if getErr == nil && current.Status == models.SessionActive {
			return current.MeetingLink, nil
		}
		return "", err
	}
	if err != nil {
		return "", err
	}
	return session.MeetingLink, nil
}

// Cancel moves any not-yet-finished session to cancelled. Either participant
// may cancel.
func (s *SessionService) Cancel(ctx context.Context, id, caller uuid.UUID) error {
	session, err := s.requireParticipant(ctx, id, caller)
	if err != nil {
		return err
	}
	if session.EffectiveStatus(s.now()) == models.SessionCompleted {
		return errs.E(errs.Conflict, "session is completed, cannot cancel")
	}
	return s.store.TransitionSession(ctx, id,
		[]string{models.SessionPending, models.SessionUpcoming, models.SessionActive},
		models.SessionCancelled)
}

// Reschedule is not a transition: it creates a brand-new pending session
// pre-filled from the old one and leaves the original untouched, including
// its meeting link.
func (s *SessionService) Reschedule(ctx context.Context, id, caller uuid.UUID, newStart time.Time) (*models.Session, error) {
	old, err := s.requireParticipant(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, CreateSessionParams{
		CreatedBy:       caller,
		PartnerID:       old.OtherParticipant(caller),
		Skill:           old.Skill,
		StartTime:       newStart,
		DurationMinutes: old.DurationMinutes,
		Notes:           old.Notes,
	})
}

// ListMine loads and categorizes every session the caller participates in.
func (s *SessionService) ListMine(ctx context.Context, caller uuid.UUID) (*SessionList, error) {
	sessions, err := s.store.ListSessionsFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	now := s.now()
	list := &SessionList{
		Pending:   []SessionView{},
		Upcoming:  []SessionView{},
		Completed: []SessionView{},
		Cancelled: []SessionView{},
	}
	for _, session := range sessions {
		view := s.view(ctx, session, caller, now)
		switch view.EffectiveStatus {
		case models.SessionPending:
			list.Pending = append(list.Pending, view)
		case models.SessionUpcoming, models.SessionActive:
			list.Upcoming = append(list.Upcoming, view)
		case models.SessionCancelled:
			list.Cancelled = append(list.Cancelled, view)
		default:
			list.Completed = append(list.Completed, view)
		}
	}
	return list, nil
}

// Upcoming returns the caller's upcoming sessions starting within the next
// week, soonest first.
func (s *SessionService) Upcoming(ctx context.Context, caller uuid.UUID) ([]SessionView, error) {
	now := s.now()
	sessions, err := s.store.ListUpcomingFor(ctx, caller, now, now.Add(UpcomingWindow))
	if err != nil {
		return nil, err
	}

	views := []SessionView{}
	for _, session := range sessions {
		views = append(views, s.view(ctx, session, caller, now))
	}
	return views, nil
}

// view resolves the other participant's identity best-effort; resolution
// failure degrades to a placeholder rather than failing the list.
func (s *SessionService) view(ctx context.Context, session models.Session, caller uuid.UUID, now time.Time) SessionView {
	v := SessionView{
		Session:         session,
		EffectiveStatus: session.EffectiveStatus(now),
		PartnerName:     PlaceholderPartnerName,
	}
	partner, err := s.store.GetUser(ctx, session.OtherParticipant(caller))
	if err != nil {
		log.Printf("Could not resolve participant for session %s: %v", session.ID, err)
		return v
	}
	v.PartnerName = partner.DisplayName
	v.PartnerPhotoURL = partner.ProfilePhotoURL
	if v.PartnerPhotoURL == "" {
		v.PartnerPhotoURL = utils.PlaceholderAvatarURL(partner.DisplayName)
	}
	return v
}

func (s *SessionService) requireParticipant(ctx context.Context, id, caller uuid.UUID) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(caller) {
		return nil, errs.E(errs.PermissionDenied, "you are not a participant of this session")
	}
	return session, nil
}

func (s *SessionService) requireRecipient(ctx context.Context, id, caller uuid.UUID) error {
	session, err := s.requireParticipant(ctx, id, caller)
	if err != nil {
		return err
	}
	if session.CreatedBy == caller {
		return errs.E(errs.PermissionDenied, "only the invited participant can respond to a proposal")
	}
	return nil
}
