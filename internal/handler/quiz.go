package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/dto"
	"quiz-drill/internal/logger"
	"quiz-drill/internal/middleware"
	"quiz-drill/internal/service"
	"quiz-drill/internal/validation"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	if validator == nil {
		validator = validation.NewValidator()
	}
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// parseBody decodes and validates a JSON body. An empty body leaves req at its zero value.
func (h *QuizHandler) parseBody(c *fiber.Ctx, req interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
		}
	}
	if errs := h.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	return nil
}

func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalSessionID).(string); ok {
		return id
	}
	return c.Params("id")
}

// GetBank godoc
// @Summary Get the question bank summary
// @Description Returns the bank source, its question count and the records rejected while loading it
// @Tags bank
// @Produce json
// @Success 200 {object} dto.BankSummaryResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /bank [get]
func (h *QuizHandler) GetBank(c *fiber.Ctx) error {
	summary, err := h.service.Bank(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// ReloadBank godoc
// @Summary Reload the question bank
// @Description Fetches the configured sources again. A failed reload keeps the current bank.
// @Tags bank
// @Produce json
// @Success 200 {object} dto.BankSummaryResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /bank/reload [post]
func (h *QuizHandler) ReloadBank(c *fiber.Ctx) error {
	summary, err := h.service.ReloadBank(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Draws count questions at random, capped to the bank size
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest false "Question count"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /sessions [post]
func (h *QuizHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.service.StartSession(c.UserContext(), req.Count)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{id} [get]
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.service.GetSession(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCurrentQuestion godoc
// @Summary Get the current question
// @Description The correct answers are never included; multiple tells whether several choices are expected
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sessions/{id}/question [get]
func (h *QuizHandler) GetCurrentQuestion(c *fiber.Ctx) error {
	resp, err := h.service.CurrentQuestion(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer godoc
// @Summary Answer the current question
// @Description Grades the 0-based choice indices by set equality
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Selected choices"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sessions/{id}/answer [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}
	id := sessionID(c)
	resp, err := h.service.SubmitAnswer(c.UserContext(), id, req.Selected)
	if err != nil {
		if !domain.IsValidation(err) && !domain.IsProtocolViolation(err) {
			logger.Get().Error("Failed to submit answer", zap.String("session_id", id), zap.Error(err))
		}
		return err
	}
	return c.JSON(resp)
}

// ContinueAfterReview godoc
// @Summary Leave the review of a missed question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sessions/{id}/continue [post]
func (h *QuizHandler) ContinueAfterReview(c *fiber.Ctx) error {
	resp, err := h.service.ContinueAfterReview(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetScore godoc
// @Summary Get the final score
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ScoreResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sessions/{id}/score [get]
func (h *QuizHandler) GetScore(c *fiber.Ctx) error {
	resp, err := h.service.FinalScore(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Restart godoc
// @Summary Restart a completed session
// @Description Starts a new run under a new session id. Count defaults to the previous run's.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.RestartRequest false "Question count"
// @Success 201 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sessions/{id}/restart [post]
func (h *QuizHandler) Restart(c *fiber.Ctx) error {
	var req dto.RestartRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.service.Restart(c.UserContext(), sessionID(c), req.Count)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ToggleSelection godoc
// @Summary Apply one click to a selection
// @Description Single-answer questions replace the selection; multi-answer questions toggle the clicked choice
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SelectionRequest true "Selection and click"
// @Success 200 {object} dto.SelectionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sessions/{id}/selection [post]
func (h *QuizHandler) ToggleSelection(c *fiber.Ctx) error {
	var req dto.SelectionRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.service.ToggleSelection(c.UserContext(), sessionID(c), req.Current, *req.Clicked)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
