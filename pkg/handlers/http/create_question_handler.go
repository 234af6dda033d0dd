package http

import (
	"github.com/gofiber/fiber/v2"
	appQuestion "github.com/memorylane/dailyquestion/pkg/app/question"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type createQuestionHandler struct {
	logger  *logrus.Logger
	service appQuestion.Service
}

func NewCreateQuestionHandler(logger *logrus.Logger, service appQuestion.Service) Handler {
	return &createQuestionHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Create a question
// @Description Adds a question with its expected answers to the pool
// @Tags Questions
// @Param Authorization header string true "Authorization token"
// @Accept json
// @Produce json
// @Param question body request.CreateQuestionRequest true "Question data"
// @Success 201 {object} question.Question "Question created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/questions [post]
func (h *createQuestionHandler) Handle(c *fiber.Ctx) error {
	var req request.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("failed to parse create question body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}
