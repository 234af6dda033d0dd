package http

import (
	"github.com/gofiber/fiber/v2"
	appQuestion "github.com/memorylane/dailyquestion/pkg/app/question"
	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/sirupsen/logrus"
)

type listQuestionsHandler struct {
	logger  *logrus.Logger
	service appQuestion.Service
}

func NewListQuestionsHandler(logger *logrus.Logger, service appQuestion.Service) Handler {
	return &listQuestionsHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary List questions
// @Tags Questions
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size (max 100)" default(100)
// @Success 200 {array} question.Question "Questions"
// @Router /api/v1/questions [get]
func (h *listQuestionsHandler) Handle(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", domainQuestion.MaxListLimit)
	if skip < 0 || limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "skip must be >= 0 and limit >= 1"})
	}

	qs, err := h.service.List(c.Context(), skip, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if qs == nil {
		qs = []domainQuestion.Question{}
	}
	return c.Status(fiber.StatusOK).JSON(qs)
}
