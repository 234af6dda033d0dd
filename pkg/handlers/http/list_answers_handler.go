package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	"github.com/memorylane/dailyquestion/pkg/domain"
	domainAnswer "github.com/memorylane/dailyquestion/pkg/domain/answer"
	"github.com/sirupsen/logrus"
)

type listAnswersHandler struct {
	logger  *logrus.Logger
	service appAnswer.Service
}

func NewListAnswersHandler(logger *logrus.Logger, service appAnswer.Service) Handler {
	return &listAnswersHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary List a user's answers
// @Tags Answers
// @Produce json
// @Param user_id query int true "User ID"
// @Param start_date query string false "RFC3339 lower bound on created_at"
// @Param end_date query string false "RFC3339 upper bound on created_at"
// @Success 200 {array} answer.Answer "Answers, newest first"
// @Failure 400 {object} map[string]interface{} "Invalid query"
// @Router /api/v1/answers [get]
func (h *listAnswersHandler) Handle(c *fiber.Ctx) error {
	userID, err := parseUserID(c.Query("user_id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var filter domainAnswer.ListFilter
	if filter.From, err = parseTimeQuery(c, "start_date"); err != nil {
		return respondError(c, h.logger, err)
	}
	if filter.To, err = parseTimeQuery(c, "end_date"); err != nil {
		return respondError(c, h.logger, err)
	}

	as, err := h.service.ListByUser(c.Context(), userID, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if as == nil {
		as = []domainAnswer.Answer{}
	}
	return c.Status(fiber.StatusOK).JSON(as)
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an RFC3339 timestamp")
	}
	return &t, nil
}
