package http

import (
	"github.com/gofiber/fiber/v2"
	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type submitTextAnswerHandler struct {
	logger  *logrus.Logger
	service appAnswer.Service
}

func NewSubmitTextAnswerHandler(logger *logrus.Logger, service appAnswer.Service) Handler {
	return &submitTextAnswerHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Submit a text answer
// @Tags Answers
// @Accept json
// @Produce json
// @Param answer body request.TextAnswerRequest true "Answer"
// @Success 201 {object} answer.Answer "Answer stored"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "User or question not found"
// @Router /api/v1/answers/text [post]
func (h *submitTextAnswerHandler) Handle(c *fiber.Ctx) error {
	var req request.TextAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	req.UserAgent = c.Get(fiber.HeaderUserAgent)

	a, err := h.service.SubmitTextAnswer(c.Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}
