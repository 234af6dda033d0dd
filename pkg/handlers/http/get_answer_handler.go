package http

import (
	"github.com/gofiber/fiber/v2"
	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	"github.com/sirupsen/logrus"
)

type getAnswerHandler struct {
	logger  *logrus.Logger
	service appAnswer.Service
}

func NewGetAnswerHandler(logger *logrus.Logger, service appAnswer.Service) Handler {
	return &getAnswerHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Retrieve an answer by ID
// @Tags Answers
// @Produce json
// @Param answer_id path string true "Answer ID"
// @Success 200 {object} answer.Answer "Answer"
// @Failure 404 {object} map[string]interface{} "Answer not found"
// @Router /api/v1/answers/{answer_id} [get]
func (h *getAnswerHandler) Handle(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "answer_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	a, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(a)
}
