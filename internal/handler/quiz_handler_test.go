package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/dto"
	"quiz-drill/internal/handler"
	"quiz-drill/internal/middleware"
	"quiz-drill/internal/validation"
)

const validID = "01HGZ8VNRYXS8QKNJV5GRWPWDQ"

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	BankFunc                func(ctx context.Context) (*dto.BankSummaryResponse, error)
	ReloadBankFunc          func(ctx context.Context) (*dto.BankSummaryResponse, error)
	StartSessionFunc        func(ctx context.Context, count *int) (*dto.SessionResponse, error)
	GetSessionFunc          func(ctx context.Context, id string) (*dto.SessionResponse, error)
	CurrentQuestionFunc     func(ctx context.Context, id string) (*dto.QuestionResponse, error)
	SubmitAnswerFunc        func(ctx context.Context, id string, selected []int) (*dto.TransitionResponse, error)
	ContinueAfterReviewFunc func(ctx context.Context, id string) (*dto.TransitionResponse, error)
	FinalScoreFunc          func(ctx context.Context, id string) (*dto.ScoreResponse, error)
	RestartFunc             func(ctx context.Context, id string, count *int) (*dto.SessionResponse, error)
	ToggleSelectionFunc     func(ctx context.Context, id string, current []int, clicked int) (*dto.SelectionResponse, error)
	RecentRunsFunc          func(ctx context.Context, limit int) (*dto.RunListResponse, error)
	MissedAnswersFunc       func(ctx context.Context, limit int) (*dto.MissedAnswerListResponse, error)
}

func (m *MockQuizService) Bank(ctx context.Context) (*dto.BankSummaryResponse, error) {
	if m.BankFunc != nil {
		return m.BankFunc(ctx)
	}
	panic("MockQuizService.BankFunc not implemented")
}
func (m *MockQuizService) ReloadBank(ctx context.Context) (*dto.BankSummaryResponse, error) {
	if m.ReloadBankFunc != nil {
		return m.ReloadBankFunc(ctx)
	}
	panic("MockQuizService.ReloadBankFunc not implemented")
}
func (m *MockQuizService) StartSession(ctx context.Context, count *int) (*dto.SessionResponse, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx, count)
	}
	panic("MockQuizService.StartSessionFunc not implemented")
}
func (m *MockQuizService) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, id)
	}
	panic("MockQuizService.GetSessionFunc not implemented")
}
func (m *MockQuizService) CurrentQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	if m.CurrentQuestionFunc != nil {
		return m.CurrentQuestionFunc(ctx, id)
	}
	panic("MockQuizService.CurrentQuestionFunc not implemented")
}
func (m *MockQuizService) SubmitAnswer(ctx context.Context, id string, selected []int) (*dto.TransitionResponse, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, id, selected)
	}
	panic("MockQuizService.SubmitAnswerFunc not implemented")
}
func (m *MockQuizService) ContinueAfterReview(ctx context.Context, id string) (*dto.TransitionResponse, error) {
	if m.ContinueAfterReviewFunc != nil {
		return m.ContinueAfterReviewFunc(ctx, id)
	}
	panic("MockQuizService.ContinueAfterReviewFunc not implemented")
}
func (m *MockQuizService) FinalScore(ctx context.Context, id string) (*dto.ScoreResponse, error) {
	if m.FinalScoreFunc != nil {
		return m.FinalScoreFunc(ctx, id)
	}
	panic("MockQuizService.FinalScoreFunc not implemented")
}
func (m *MockQuizService) Restart(ctx context.Context, id string, count *int) (*dto.SessionResponse, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, id, count)
	}
	panic("MockQuizService.RestartFunc not implemented")
}
func (m *MockQuizService) ToggleSelection(ctx context.Context, id string, current []int, clicked int) (*dto.SelectionResponse, error) {
	if m.ToggleSelectionFunc != nil {
		return m.ToggleSelectionFunc(ctx, id, current, clicked)
	}
	panic("MockQuizService.ToggleSelectionFunc not implemented")
}
func (m *MockQuizService) RecentRuns(ctx context.Context, limit int) (*dto.RunListResponse, error) {
	if m.RecentRunsFunc != nil {
		return m.RecentRunsFunc(ctx, limit)
	}
	panic("MockQuizService.RecentRunsFunc not implemented")
}
func (m *MockQuizService) MissedAnswers(ctx context.Context, limit int) (*dto.MissedAnswerListResponse, error) {
	if m.MissedAnswersFunc != nil {
		return m.MissedAnswersFunc(ctx, limit)
	}
	panic("MockQuizService.MissedAnswersFunc not implemented")
}

func newApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	v := validation.NewValidator()
	handler.RegisterRoutes(app,
		handler.NewQuizHandler(svc, v),
		handler.NewJournalHandler(svc),
		middleware.NewValidationMiddleware(v))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestQuizHandler_GetBank(t *testing.T) {
	svc := &MockQuizService{
		BankFunc: func(ctx context.Context) (*dto.BankSummaryResponse, error) {
			return &dto.BankSummaryResponse{Source: "bank.txt", QuestionCount: 2, Rejected: []dto.RejectedLineResponse{}}, nil
		},
	}
	resp, body := doJSON(t, newApp(svc), http.MethodGet, "/api/bank", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.BankSummaryResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 2, got.QuestionCount)
}

func TestQuizHandler_ReloadBankUnavailable(t *testing.T) {
	svc := &MockQuizService{
		ReloadBankFunc: func(ctx context.Context) (*dto.BankSummaryResponse, error) {
			return nil, domain.NewFetchTimeoutError("http://bank.example/q.txt", context.DeadlineExceeded)
		},
	}
	resp, body := doJSON(t, newApp(svc), http.MethodPost, "/api/bank/reload", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "FETCH_TIMEOUT")
}

func TestQuizHandler_StartSession(t *testing.T) {
	t.Run("with count", func(t *testing.T) {
		var gotCount *int
		svc := &MockQuizService{
			StartSessionFunc: func(ctx context.Context, count *int) (*dto.SessionResponse, error) {
				gotCount = count
				return &dto.SessionResponse{ID: validID, State: "in_progress", Total: 5, Requested: 5}, nil
			},
		}
		resp, body := doJSON(t, newApp(svc), http.MethodPost, "/api/sessions", map[string]int{"count": 5})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NotNil(t, gotCount)
		assert.Equal(t, 5, *gotCount)

		var got dto.SessionResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, validID, got.ID)
	})

	t.Run("empty body uses default", func(t *testing.T) {
		svc := &MockQuizService{
			StartSessionFunc: func(ctx context.Context, count *int) (*dto.SessionResponse, error) {
				assert.Nil(t, count)
				return &dto.SessionResponse{ID: validID, State: "in_progress"}, nil
			},
		}
		resp, _ := doJSON(t, newApp(svc), http.MethodPost, "/api/sessions", nil)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("zero count", func(t *testing.T) {
		svc := &MockQuizService{}
		resp, body := doJSON(t, newApp(svc), http.MethodPost, "/api/sessions", map[string]int{"count": 0})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), `"field":"count"`)
	})
}

func TestQuizHandler_SessionID(t *testing.T) {
	svc := &MockQuizService{
		GetSessionFunc: func(ctx context.Context, id string) (*dto.SessionResponse, error) {
			return nil, domain.NewSessionNotFoundError(id)
		},
	}
	app := newApp(svc)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/sessions/not-a-ulid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/sessions/"+validID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "SESSION_NOT_FOUND")
}

func TestQuizHandler_CurrentQuestion(t *testing.T) {
	svc := &MockQuizService{
		CurrentQuestionFunc: func(ctx context.Context, id string) (*dto.QuestionResponse, error) {
			return &dto.QuestionResponse{SessionID: id, ID: 3, Text: "Q3", Kind: "text", Choices: []string{"a", "b"}, Total: 3}, nil
		},
	}
	resp, body := doJSON(t, newApp(svc), http.MethodGet, "/api/sessions/"+validID+"/question", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "correct")

	var got dto.QuestionResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, []string{"a", "b"}, got.Choices)
}

func TestQuizHandler_SubmitAnswer(t *testing.T) {
	t.Run("graded", func(t *testing.T) {
		svc := &MockQuizService{
			SubmitAnswerFunc: func(ctx context.Context, id string, selected []int) (*dto.TransitionResponse, error) {
				assert.Equal(t, validID, id)
				assert.Equal(t, []int{0, 2}, selected)
				return &dto.TransitionResponse{SessionID: id, Correct: true, State: "in_progress", Position: 1, Score: 1, Total: 3}, nil
			},
		}
		resp, body := doJSON(t, newApp(svc), http.MethodPost, "/api/sessions/"+validID+"/answer",
			dto.SubmitAnswerRequest{Selected: []int{0, 2}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.TransitionResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.True(t, got.Correct)
	})

	t.Run("empty selection", func(t *testing.T) {
		resp, _ := doJSON(t, newApp(&MockQuizService{}), http.MethodPost, "/api/sessions/"+validID+"/answer",
			map[string]interface{}{"selected": []int{}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+validID+"/answer", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := newApp(&MockQuizService{}).Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong state", func(t *testing.T) {
		svc := &MockQuizService{
			SubmitAnswerFunc: func(ctx context.Context, id string, selected []int) (*dto.TransitionResponse, error) {
				return nil, domain.NewProtocolViolation("submit answer", "reviewing")
			},
		}
		resp, body := doJSON(t, newApp(svc), http.MethodPost, "/api/sessions/"+validID+"/answer",
			dto.SubmitAnswerRequest{Selected: []int{1}})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, string(body), "PROTOCOL_VIOLATION")
	})
}

func TestQuizHandler_ContinueAndScore(t *testing.T) {
	svc := &MockQuizService{
		ContinueAfterReviewFunc: func(ctx context.Context, id string) (*dto.TransitionResponse, error) {
			return &dto.TransitionResponse{SessionID: id, State: "completed", Position: 3, Score: 2, Total: 3}, nil
		},
		FinalScoreFunc: func(ctx context.Context, id string) (*dto.ScoreResponse, error) {
			return &dto.ScoreResponse{SessionID: id, Correct: 2, Total: 3, Percent: 66.7, Rating: "good", Message: "Well done!"}, nil
		},
	}
	app := newApp(svc)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/sessions/"+validID+"/continue", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/sessions/"+validID+"/score", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ScoreResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 66.7, got.Percent)
	assert.Equal(t, "good", got.Rating)
}

func TestQuizHandler_Restart(t *testing.T) {
	svc := &MockQuizService{
		RestartFunc: func(ctx context.Context, id string, count *int) (*dto.SessionResponse, error) {
			assert.Nil(t, count)
			return &dto.SessionResponse{ID: "01HGZ8VNRYXS8QKNJV5GRWPWDR", State: "in_progress"}, nil
		},
	}
	resp, _ := doJSON(t, newApp(svc), http.MethodPost, "/api/sessions/"+validID+"/restart", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestQuizHandler_ToggleSelection(t *testing.T) {
	svc := &MockQuizService{
		ToggleSelectionFunc: func(ctx context.Context, id string, current []int, clicked int) (*dto.SelectionResponse, error) {
			assert.Equal(t, []int{0}, current)
			assert.Equal(t, 2, clicked)
			return &dto.SelectionResponse{Selected: []int{0, 2}, Multiple: true}, nil
		},
	}
	app := newApp(svc)

	resp, body := doJSON(t, app, http.MethodPost, "/api/sessions/"+validID+"/selection",
		map[string]interface{}{"current": []int{0}, "clicked": 2})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SelectionResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, []int{0, 2}, got.Selected)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/sessions/"+validID+"/selection",
		map[string]interface{}{"current": []int{0}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJournalHandler(t *testing.T) {
	var gotLimit int
	svc := &MockQuizService{
		RecentRunsFunc: func(ctx context.Context, limit int) (*dto.RunListResponse, error) {
			gotLimit = limit
			return &dto.RunListResponse{Runs: []dto.RunResponse{{ID: "run-1", Score: 3, Total: 4}}}, nil
		},
		MissedAnswersFunc: func(ctx context.Context, limit int) (*dto.MissedAnswerListResponse, error) {
			return &dto.MissedAnswerListResponse{Missed: []dto.MissedAnswerResponse{}}, nil
		},
	}
	app := newApp(svc)

	resp, body := doJSON(t, app, http.MethodGet, "/api/journal/runs?limit=7", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, gotLimit)
	assert.Contains(t, string(body), "run-1")

	resp, _ = doJSON(t, app, http.MethodGet, "/api/journal/missed", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/journal/missed?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
