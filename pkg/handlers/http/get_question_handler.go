package http

import (
	"github.com/gofiber/fiber/v2"
	appQuestion "github.com/memorylane/dailyquestion/pkg/app/question"
	"github.com/sirupsen/logrus"
)

type getQuestionHandler struct {
	logger  *logrus.Logger
	service appQuestion.Service
}

func NewGetQuestionHandler(logger *logrus.Logger, service appQuestion.Service) Handler {
	return &getQuestionHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Retrieve a question by ID
// @Tags Questions
// @Produce json
// @Param question_id path string true "Question ID"
// @Success 200 {object} question.Question "Question"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /api/v1/questions/{question_id} [get]
func (h *getQuestionHandler) Handle(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "question_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	q, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(q)
}
