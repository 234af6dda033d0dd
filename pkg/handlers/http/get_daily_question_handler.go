package http

import (
	"github.com/gofiber/fiber/v2"
	appQuestion "github.com/memorylane/dailyquestion/pkg/app/question"
	"github.com/sirupsen/logrus"
)

type getDailyQuestionHandler struct {
	logger    *logrus.Logger
	generator appQuestion.DailyGenerator
}

func NewGetDailyQuestionHandler(logger *logrus.Logger, generator appQuestion.DailyGenerator) Handler {
	return &getDailyQuestionHandler{
		logger:    logger,
		generator: generator,
	}
}

// Handle @Summary Get today's question for a user
// @Description Returns the user's question for today, generating one on the first request of the day
// @Tags Questions
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} question.Question "Daily question"
// @Failure 400 {object} map[string]interface{} "Invalid user_id"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/v1/questions/daily [get]
func (h *getDailyQuestionHandler) Handle(c *fiber.Ctx) error {
	userID, err := parseUserID(c.Query("user_id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	q, err := h.generator.DailyQuestion(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(q)
}
