package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Route path keeps label cardinality bounded, e.g. /api/v1/answers/:answer_id.
		route := c.Route().Path
		method := c.Method()

		prometheus.RequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		if prometheus.Config.EnableLatency {
			prometheus.RequestLatency.WithLabelValues(method, route).
				Observe(float64(time.Since(start).Microseconds()) / 1000)
		}

		m.logger.WithFields(logrus.Fields{
			"method":  method,
			"route":   route,
			"status":  status,
			"latency": time.Since(start).String(),
		}).Debug("request served")
		return err
	}
}
