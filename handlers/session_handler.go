package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/services"
	"github.com/skillswap/skillswap/store"
	ws "github.com/skillswap/skillswap/websocket"
)

type SessionHandler struct {
	Store    *store.Store
	Sessions *services.SessionService
	Hub      *ws.Hub
}

type CreateSessionRequest struct {
	PartnerID       string `json:"partner_id" validate:"required,uuid"`
	Skill           string `json:"skill" validate:"required"`
	StartTime       string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1"`
	Notes           string `json:"notes"`
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return errs.E(errs.Invalid, err.Error())
	}

	partnerID, _ := uuid.Parse(req.PartnerID)
	startTime, _ := time.Parse(time.RFC3339, req.StartTime)

	session, err := h.Sessions.Create(c.Context(), services.CreateSessionParams{
		CreatedBy:       userID,
		PartnerID:       partnerID,
		Skill:           req.Skill,
		StartTime:       startTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}

	h.Hub.Notify(ws.Event{Type: ws.EventSessionsUpdated, SessionID: session.ID.String()},
		session.ParticipantA, session.ParticipantB)
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) ListMine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	list, err := h.Sessions.ListMine(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *SessionHandler) Upcoming(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	views, err := h.Sessions.Upcoming(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(views)
}

func (h *SessionHandler) Accept(c *fiber.Ctx) error {
	return h.transition(c, h.Sessions.Accept, "Session accepted successfully")
}

func (h *SessionHandler) Decline(c *fiber.Ctx) error {
	return h.transition(c, h.Sessions.Decline, "Session declined")
}

func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.Sessions.Cancel, "Session cancelled successfully")
}

func (h *SessionHandler) Join(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return errs.E(errs.Invalid, "invalid session id")
	}

	link, err := h.Sessions.Join(c.Context(), sessionID, userID)
	if err != nil {
		return err
	}
	h.notifyParticipants(c, sessionID)
	return c.JSON(fiber.Map{"meeting_link": link})
}

type RescheduleRequest struct {
	NewStartTime string `json:"new_start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// Reschedule creates a fresh pending proposal pre-filled from an existing
// session; the original keeps its state.
func (h *SessionHandler) Reschedule(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return errs.E(errs.Invalid, "invalid session id")
	}

	var req RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return errs.E(errs.Invalid, err.Error())
	}
	newStart, _ := time.Parse(time.RFC3339, req.NewStartTime)

	session, err := h.Sessions.Reschedule(c.Context(), sessionID, userID, newStart)
	if err != nil {
		return err
	}
	h.Hub.Notify(ws.Event{Type: ws.EventSessionsUpdated, SessionID: session.ID.String()},
		session.ParticipantA, session.ParticipantB)
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id, caller uuid.UUID) error, message string) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return errs.E(errs.Invalid, "invalid session id")
	}

	if err := fn(c.Context(), sessionID, userID); err != nil {
		return err
	}
	h.notifyParticipants(c, sessionID)
	return c.JSON(fiber.Map{"message": message})
}

// notifyParticipants pings both users' open connections after a lifecycle
// change; resolution failure only costs the push, not the request.
func (h *SessionHandler) notifyParticipants(c *fiber.Ctx, sessionID uuid.UUID) {
	session, err := h.Store.GetSession(c.Context(), sessionID)
	if err != nil {
		return
	}
	h.Hub.Notify(ws.Event{Type: ws.EventSessionsUpdated, SessionID: sessionID.String()},
		session.ParticipantA, session.ParticipantB)
}
