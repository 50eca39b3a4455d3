package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/store"
)

type ProfileHandler struct {
	Store *store.Store
}

type UpdateProfileRequest struct {
	FirstName       *string              `json:"first_name"`
	LastName        *string              `json:"last_name"`
	Bio             *string              `json:"bio"`
	SkillsToTeach   *models.SkillList    `json:"skills_to_teach"`
	SkillsToLearn   *models.SkillList    `json:"skills_to_learn"`
	Availability    *models.Availability `json:"availability"`
	ProfilePhotoURL *string              `json:"profile_photo_url"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.Store.GetUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfile applies a partial self-service edit. Skill lists are
// deduplicated, availability keys are validated against the 21 fixed
// day/slot keys, and an uploaded photo URL is stored verbatim.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.Store.GetUser(c.Context(), userID)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.FirstName != nil || req.LastName != nil {
		user.DisplayName = user.FirstName
		if user.LastName != "" {
			user.DisplayName = user.FirstName + " " + user.LastName
		}
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.SkillsToTeach != nil {
		user.SkillsToTeach = req.SkillsToTeach.Dedupe()
	}
	if req.SkillsToLearn != nil {
		user.SkillsToLearn = req.SkillsToLearn.Dedupe()
	}
	if req.Availability != nil {
		for key := range *req.Availability {
			if !models.ValidAvailabilityKey(key) {
				return errs.Ef(errs.Invalid, "unknown availability key %q", key)
			}
		}
		user.Availability = *req.Availability
	}
	if req.ProfilePhotoURL != nil {
		user.ProfilePhotoURL = *req.ProfilePhotoURL
	}

	if err := h.Store.SaveUser(c.Context(), user); err != nil {
		return err
	}
	return c.JSON(user)
}
