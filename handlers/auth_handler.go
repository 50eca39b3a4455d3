package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	config "github.com/skillswap/skillswap/configs"
	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/notifications"
	"github.com/skillswap/skillswap/store"
	"github.com/skillswap/skillswap/utils"
)

type AuthHandler struct {
	Store *store.Store
	Email notifications.Sender
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return errs.E(errs.Invalid, err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errs.E(errs.Internal, "failed to hash password", err)
	}

	displayName := req.FirstName
	if req.LastName != "" {
		displayName = req.FirstName + " " + req.LastName
	}

	user := &models.User{
		ID:              uuid.New(),
		Email:           req.Email,
		PasswordHash:    string(hashed),
		DisplayName:     displayName,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		SkillsToTeach:   models.SkillList{},
		SkillsToLearn:   models.SkillList{},
		Availability:    models.Availability{},
		ProfilePhotoURL: utils.PlaceholderAvatarURL(displayName),
	}
	if err := h.Store.CreateUser(c.Context(), user); err != nil {
		return err
	}

	notifications.SendAsync(h.Email, user.DisplayName, user.Email,
		"Welcome to SkillSwap!",
		"<h1>Welcome!</h1><p>Thank you for registering. Add the skills you can teach and the ones you want to learn to start matching with partners.</p>")

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return errs.E(errs.Invalid, err.Error())
	}

	user, err := h.Store.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		return errs.E(errs.PermissionDenied, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return errs.E(errs.PermissionDenied, "invalid email or password")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return errs.E(errs.Internal, "failed to create token", err)
	}

	return c.JSON(fiber.Map{"token": signed, "user": user})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return errs.E(errs.Invalid, err.Error())
	}

	// Same response whether or not the account exists.
	neutral := fiber.Map{"message": "If an account with that email exists, a password reset link has been sent."}

	user, err := h.Store.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		return c.JSON(neutral)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return errs.E(errs.Internal, "failed to generate reset token", err)
	}
	expiration := time.Now().Add(15 * time.Minute)
	user.ResetPasswordToken = &token
	user.ResetPasswordTokenExpiresAt = &expiration
	if err := h.Store.SaveUser(c.Context(), user); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.Config("FRONTEND_URL"), token)
	notifications.SendAsync(h.Email, user.DisplayName, user.Email,
		"Your Password Reset Link",
		fmt.Sprintf("<h1>Password Reset</h1><p>Click the link below to reset your password. This link is valid for 15 minutes.</p><p><a href='%s'>Reset Password</a></p>", resetLink))

	return c.JSON(neutral)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	type request struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return errs.E(errs.Invalid, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return errs.E(errs.Invalid, err.Error())
	}

	user, err := h.Store.GetUserByResetToken(c.Context(), req.Token)
	if err != nil {
		return errs.E(errs.Invalid, "invalid or expired reset token")
	}
	if user.ResetPasswordTokenExpiresAt == nil || time.Now().After(*user.ResetPasswordTokenExpiresAt) {
		return errs.E(errs.Invalid, "invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.E(errs.Internal, "failed to hash password", err)
	}
	user.PasswordHash = string(hashed)
	user.ResetPasswordToken = nil
	user.ResetPasswordTokenExpiresAt = nil
	if err := h.Store.SaveUser(c.Context(), user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password has been reset successfully."})
}
