package http

import (
	"github.com/gofiber/fiber/v2"
	appQuestion "github.com/memorylane/dailyquestion/pkg/app/question"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type updateQuestionHandler struct {
	logger  *logrus.Logger
	service appQuestion.Service
}

func NewUpdateQuestionHandler(logger *logrus.Logger, service appQuestion.Service) Handler {
	return &updateQuestionHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Update a question
// @Tags Questions
// @Param Authorization header string true "Authorization token"
// @Accept json
// @Produce json
// @Param question_id path string true "Question ID"
// @Param question body request.UpdateQuestionRequest true "Fields to replace"
// @Success 200 {object} question.Question "Updated question"
// @Failure 404 {object} map[string]interface{} "Question not found"
// @Router /api/v1/questions/{question_id} [put]
func (h *updateQuestionHandler) Handle(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "question_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req request.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(q)
}
