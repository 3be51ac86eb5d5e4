package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-drill/internal/middleware"
	"quiz-drill/internal/service"
)

// JournalHandler serves the mistake journal.
type JournalHandler struct {
	service service.QuizService
}

func NewJournalHandler(service service.QuizService) *JournalHandler {
	return &JournalHandler{service: service}
}

func limit(c *fiber.Ctx) int {
	if v, ok := c.Locals(middleware.LocalLimit).(int); ok {
		return v
	}
	return 0
}

// GetRecentRuns godoc
// @Summary List recent runs
// @Description Newest first. Empty when the journal is disabled.
// @Tags journal
// @Produce json
// @Param limit query int false "Maximum entries (1-200)"
// @Success 200 {object} dto.RunListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /journal/runs [get]
func (h *JournalHandler) GetRecentRuns(c *fiber.Ctx) error {
	resp, err := h.service.RecentRuns(c.UserContext(), limit(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetMissedAnswers godoc
// @Summary List missed answers
// @Tags journal
// @Produce json
// @Param limit query int false "Maximum entries (1-200)"
// @Success 200 {object} dto.MissedAnswerListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /journal/missed [get]
func (h *JournalHandler) GetMissedAnswers(c *fiber.Ctx) error {
	resp, err := h.service.MissedAnswers(c.UserContext(), limit(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
