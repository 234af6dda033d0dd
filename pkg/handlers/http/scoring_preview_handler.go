package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/memorylane/dailyquestion/pkg/app/scoring"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type scoringPreviewHandler struct {
	logger *logrus.Logger
	scorer scoring.Scorer
}

func NewScoringPreviewHandler(logger *logrus.Logger, scorer scoring.Scorer) Handler {
	return &scoringPreviewHandler{
		logger: logger,
		scorer: scorer,
	}
}

// Handle @Summary Preview a semantic score
// @Description Runs the scoring pipeline on an ad-hoc question, exemplar set and answer without storing anything
// @Tags Scoring
// @Param Authorization header string true "Authorization token"
// @Accept json
// @Produce json
// @Param preview body request.ScoringPreviewRequest true "Scoring input"
// @Success 200 {object} scoring.Result "Scoring result"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/scoring/preview [post]
func (h *scoringPreviewHandler) Handle(c *fiber.Ctx) error {
	var req request.ScoringPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res := h.scorer.ScoreAnswer(c.Context(), scoring.Question{
		Content:   req.Question,
		Exemplars: req.Exemplars,
	}, req.Answer)
	return c.Status(fiber.StatusOK).JSON(res)
}
