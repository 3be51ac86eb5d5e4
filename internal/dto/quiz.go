package dto

import "time"

// StartSessionRequest starts a run. A missing count falls back to the configured default.
// @Description Request body for starting a session
type StartSessionRequest struct {
	Count *int `json:"count,omitempty" validate:"omitempty,min=1"`
}

// SubmitAnswerRequest carries 0-based choice indices.
// @Description Request body for answering the current question
type SubmitAnswerRequest struct {
	Selected []int `json:"selected" validate:"required,min=1,dive,min=0"`
}

// SelectionRequest applies one click to the selection being built.
type SelectionRequest struct {
	Current []int `json:"current" validate:"dive,min=0"`
	Clicked *int  `json:"clicked" validate:"required,min=0"`
}

type RestartRequest struct {
	Count *int `json:"count,omitempty" validate:"omitempty,min=1"`
}

// RejectedLineResponse is one record dropped while loading the bank.
type RejectedLineResponse struct {
	Line    int    `json:"line"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason"`
}

// BankSummaryResponse describes the loaded question bank
// @Description Question bank summary
type BankSummaryResponse struct {
	Source        string                 `json:"source"`
	QuestionCount int                    `json:"question_count"`
	Rejected      []RejectedLineResponse `json:"rejected"`
}

// ReviewResponse is the correction shown after a wrong answer.
type ReviewResponse struct {
	QuestionID   int      `json:"question_id"`
	Selected     []int    `json:"selected"`
	Correct      []int    `json:"correct"`
	CorrectTexts []string `json:"correct_texts"`
}

// SessionResponse represents a session in the API response
// @Description Session state
type SessionResponse struct {
	ID        string          `json:"id"`
	State     string          `json:"state"`
	Position  int             `json:"position"`
	Total     int             `json:"total"`
	Score     int             `json:"score"`
	Requested int             `json:"requested"`
	Review    *ReviewResponse `json:"review,omitempty"`
}

// QuestionResponse never carries the correct answers.
// @Description Current question
type QuestionResponse struct {
	SessionID string   `json:"session_id"`
	ID        int      `json:"id"`
	Text      string   `json:"text"`
	Kind      string   `json:"kind"`
	ImageRef  string   `json:"image_ref,omitempty"`
	Choices   []string `json:"choices"`
	Multiple  bool     `json:"multiple"`
	Position  int      `json:"position"`
	Total     int      `json:"total"`
}

// TransitionResponse reports the result of an answer or a continue.
// @Description Session transition
type TransitionResponse struct {
	SessionID      string   `json:"session_id"`
	Correct        bool     `json:"correct"`
	State          string   `json:"state"`
	Position       int      `json:"position"`
	Score          int      `json:"score"`
	Total          int      `json:"total"`
	CorrectChoices []int    `json:"correct_choices,omitempty"`
	CorrectTexts   []string `json:"correct_texts,omitempty"`
}

// MissedQuestionResponse is a wrongly answered question of the finished run.
type MissedQuestionResponse struct {
	QuestionID   int      `json:"question_id"`
	Text         string   `json:"text"`
	Selected     []int    `json:"selected"`
	Correct      []int    `json:"correct"`
	CorrectTexts []string `json:"correct_texts"`
}

// ScoreResponse represents the final score
// @Description Final score of a completed session
type ScoreResponse struct {
	SessionID string                   `json:"session_id"`
	Correct   int                      `json:"correct"`
	Total     int                      `json:"total"`
	Percent   float64                  `json:"percent"`
	Rating    string                   `json:"rating"`
	Message   string                   `json:"message"`
	Missed    []MissedQuestionResponse `json:"missed"`
}

type SelectionResponse struct {
	Selected []int `json:"selected"`
	Multiple bool  `json:"multiple"`
}

// RunResponse is one journal entry.
type RunResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percent     float64   `json:"percent"`
	BankSource  string    `json:"bank_source"`
	CompletedAt time.Time `json:"completed_at"`
}

type RunListResponse struct {
	Runs []RunResponse `json:"runs"`
}

type MissedAnswerResponse struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	QuestionID   int       `json:"question_id"`
	QuestionText string    `json:"question_text"`
	Selected     []int     `json:"selected"`
	Correct      []int     `json:"correct"`
	CorrectTexts []string  `json:"correct_texts"`
	AnsweredAt   time.Time `json:"answered_at"`
}

type MissedAnswerListResponse struct {
	Missed []MissedAnswerResponse `json:"missed"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}
