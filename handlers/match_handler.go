package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillswap/skillswap/services"
	"github.com/skillswap/skillswap/store"
)

type MatchHandler struct {
	Store   *store.Store
	Matches *services.MatchService
}

// SuggestedMatches is the dashboard surface: up to 6 partners who teach
// something the caller wants to learn.
func (h *MatchHandler) SuggestedMatches(c *fiber.Ctx) error {
	return h.findMatches(c, services.DashboardMatchLimit)
}

// PotentialPartners is the full partner list, capped at 20.
func (h *MatchHandler) PotentialPartners(c *fiber.Ctx) error {
	return h.findMatches(c, services.PartnerListLimit)
}

func (h *MatchHandler) findMatches(c *fiber.Ctx, limit int) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.Store.GetUser(c.Context(), userID)
	if err != nil {
		return err
	}

	matches, err := h.Matches.FindMatches(c.Context(), user.SkillsToLearn, userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"matches":          matches,
		"profile_complete": len(user.SkillsToLearn) > 0,
	})
}
