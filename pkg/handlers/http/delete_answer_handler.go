package http

import (
	"github.com/gofiber/fiber/v2"
	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	"github.com/sirupsen/logrus"
)

type deleteAnswerHandler struct {
	logger  *logrus.Logger
	service appAnswer.Service
}

func NewDeleteAnswerHandler(logger *logrus.Logger, service appAnswer.Service) Handler {
	return &deleteAnswerHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Delete an answer
// @Description Deletes the answer and its stored recording
// @Tags Answers
// @Param answer_id path string true "Answer ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Answer not found"
// @Router /api/v1/answers/{answer_id} [delete]
func (h *deleteAnswerHandler) Handle(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "answer_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
