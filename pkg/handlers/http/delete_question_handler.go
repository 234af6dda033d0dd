package http

import (
	"github.com/gofiber/fiber/v2"
	appQuestion "github.com/memorylane/dailyquestion/pkg/app/question"
	"github.com/sirupsen/logrus"
)

type deleteQuestionHandler struct {
	logger  *logrus.Logger
	service appQuestion.Service
}

func NewDeleteQuestionHandler(logger *logrus.Logger, service appQuestion.Service) Handler {
	return &deleteQuestionHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Delete a question
// @Description Deletes the question and, through the foreign key, its answers
// @Tags Questions
// @Param Authorization header string true "Authorization token"
// @Param question_id path string true "Question ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /api/v1/questions/{question_id} [delete]
func (h *deleteQuestionHandler) Handle(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "question_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
