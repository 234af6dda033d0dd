package router

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	handlers "github.com/memorylane/dailyquestion/pkg/handlers/http"
	"github.com/memorylane/dailyquestion/pkg/middleware"
)

const (
	VersionPath = "/version"
	DocsPath    = "/docs/*"
	SwaggerPath = "/swagger.json"
)

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
	swaggerURL          string
}

// NewAPIRouter mounts the question, answer and scoring routes. swaggerURL is
// where the docs UI fetches swagger.json from; empty means same origin.
func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
	swaggerURL string,
) ServerRouter {
	if swaggerURL == "" {
		swaggerURL = SwaggerPath
	}
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		swaggerURL:          swaggerURL,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	h := r.handlerTransport
	if h == nil || r.middlewareTransport == nil {
		return fmt.Errorf("api router: missing handler or middleware transport")
	}
	if r.middlewareTransport.AdminAuthMiddleware == nil {
		return fmt.Errorf("api router: admin auth middleware is required")
	}
	admin := r.middlewareTransport.AdminAuthMiddleware.Middleware()

	router.Static(SwaggerPath, "./docs/swagger.json")
	router.Get(DocsPath, swagger.New(swagger.Config{
		URL: r.swaggerURL,
	}))
	router.Get(VersionPath, h.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		if mws := r.middlewareTransport.GetMiddlewares(); len(mws) > 0 {
			v1.Use(mws...)
		}

		questions := v1.Group("/questions")
		{
			// registered before /:question_id so "daily" is not taken as an id
			questions.Get("/daily", h.GetDailyQuestionHandler.Handle)
			questions.Get("", h.ListQuestionsHandler.Handle)
			questions.Post("", admin, h.CreateQuestionHandler.Handle)
			questions.Get("/:question_id", h.GetQuestionHandler.Handle)
			questions.Put("/:question_id", admin, h.UpdateQuestionHandler.Handle)
			questions.Delete("/:question_id", admin, h.DeleteQuestionHandler.Handle)
		}

		answers := v1.Group("/answers")
		{
			answers.Post("/voice", h.SubmitVoiceAnswerHandler.Handle)
			answers.Post("/text", h.SubmitTextAnswerHandler.Handle)
			answers.Get("", h.ListAnswersHandler.Handle)
			answers.Get("/:answer_id", h.GetAnswerHandler.Handle)
			answers.Delete("/:answer_id", h.DeleteAnswerHandler.Handle)
		}

		v1.Post("/scoring/preview", admin, h.ScoringPreviewHandler.Handle)
	}
	return nil
}
