package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	PanicRecoverMiddleware Middleware
	MetricsMiddleware      Middleware
	AdminAuthMiddleware    Middleware
}

// GetMiddlewares returns the handlers applied to every API route.
func (t *Transport) GetMiddlewares() []interface{} {
	var out []interface{}
	for _, m := range []Middleware{t.PanicRecoverMiddleware, t.MetricsMiddleware} {
		if m != nil {
			out = append(out, m.Middleware())
		}
	}
	return out
}
