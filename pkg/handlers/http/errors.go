package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	"github.com/memorylane/dailyquestion/pkg/domain"
	"github.com/memorylane/dailyquestion/pkg/infra/services/users"
	"github.com/sirupsen/logrus"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	switch {
	case domain.IsValidationError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case domain.IsNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, users.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	case errors.Is(err, users.ErrServiceUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "user service unavailable"})
	case errors.Is(err, appAnswer.ErrAudioUpload):
		logger.WithError(err).Error("audio upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not store audio"})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := c.Params(name)
	if raw == "" || raw == "null" {
		return uuid.Nil, domain.NewValidationError(name, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "invalid format")
	}
	return id, nil
}

func parseUserID(raw string) (int64, error) {
	if raw == "" {
		return 0, domain.NewValidationError("user_id", "is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("user_id", "must be a positive integer")
	}
	return id, nil
}
