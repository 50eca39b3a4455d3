package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap/errs"
)

var validate = validator.New()

// currentUserID extracts the authenticated subject from the JWT placed in
// locals by the Protected middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errs.E(errs.PermissionDenied, "missing authentication")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errs.E(errs.PermissionDenied, "missing authentication")
	}
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.E(errs.PermissionDenied, "invalid token subject")
	}
	return id, nil
}

// ErrorHandler is the central fiber error handler: it translates the typed
// error taxonomy into HTTP statuses so individual handlers just return
// errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{"status": "error", "message": e.Message})
	}

	code := fiber.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.Invalid:
		code = fiber.StatusBadRequest
	case errs.PermissionDenied:
		code = fiber.StatusForbidden
	case errs.NotFound:
		code = fiber.StatusNotFound
	case errs.Conflict:
		code = fiber.StatusConflict
	case errs.Unavailable:
		code = fiber.StatusServiceUnavailable
	case errs.Timeout:
		code = fiber.StatusGatewayTimeout
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"code":    errs.KindOf(err).String(),
		"message": err.Error(),
	})
}
