package domain

import (
	"context"
	"time"
)

// RunResult is the journal entry written when a quiz run completes.
type RunResult struct {
	ID          string
	SessionID   string
	Score       int
	Total       int
	Percent     float64
	BankSource  string
	CompletedAt time.Time
	Missed      []MissedAnswer
}

// MissedAnswer keeps one incorrectly answered question for later review.
type MissedAnswer struct {
	ID           int64
	RunID        string
	QuestionID   int
	QuestionText string
	Selected     []int
	Correct      []int
	CorrectTexts []string
	AnsweredAt   time.Time
}

// ResultRepository stores finished runs and the questions missed in them.
type ResultRepository interface {
	SaveRun(ctx context.Context, run *RunResult) error
	RecentRuns(ctx context.Context, limit int) ([]*RunResult, error)
	MissedAnswers(ctx context.Context, limit int) ([]*MissedAnswer, error)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
