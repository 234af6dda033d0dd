package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Questions
	GetDailyQuestionHandler Handler
	CreateQuestionHandler   Handler
	ListQuestionsHandler    Handler
	GetQuestionHandler      Handler
	UpdateQuestionHandler   Handler
	DeleteQuestionHandler   Handler

	// Answers
	SubmitVoiceAnswerHandler Handler
	SubmitTextAnswerHandler  Handler
	ListAnswersHandler       Handler
	GetAnswerHandler         Handler
	DeleteAnswerHandler      Handler

	// Scoring
	ScoringPreviewHandler Handler

	GetVersionHandler Handler
}
