package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-drill/internal/middleware"
)

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app *fiber.App, quiz *QuizHandler, journal *JournalHandler, vm *middleware.ValidationMiddleware) {
	api := app.Group("/api")

	api.Get("/bank", quiz.GetBank)
	api.Post("/bank/reload", quiz.ReloadBank)

	validID := vm.ValidateSessionID()
	sessions := api.Group("/sessions")
	sessions.Post("/", quiz.StartSession)
	sessions.Get("/:id", validID, quiz.GetSession)
	sessions.Get("/:id/question", validID, quiz.GetCurrentQuestion)
	sessions.Post("/:id/answer", validID, quiz.SubmitAnswer)
	sessions.Post("/:id/continue", validID, quiz.ContinueAfterReview)
	sessions.Get("/:id/score", validID, quiz.GetScore)
	sessions.Post("/:id/restart", validID, quiz.Restart)
	sessions.Post("/:id/selection", validID, quiz.ToggleSelection)

	validLimit := vm.ValidateLimit()
	journalGroup := api.Group("/journal")
	journalGroup.Get("/runs", validLimit, journal.GetRecentRuns)
	journalGroup.Get("/missed", validLimit, journal.GetMissedAnswers)
}
