package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/repository/models"
)

const (
	insertRunQuery = `INSERT INTO quiz_runs (id, session_id, score, total, percent, bank_source, completed_at)
	VALUES (:id, :session_id, :score, :total, :percent, :bank_source, :completed_at)`

	insertMissedQuery = `INSERT INTO missed_answers (run_id, question_id, question_text, selected, correct, correct_texts, answered_at)
	VALUES (:run_id, :question_id, :question_text, :selected, :correct, :correct_texts, :answered_at)`

	recentRunsQuery = `SELECT id, session_id, score, total, percent, bank_source, completed_at
	FROM quiz_runs ORDER BY completed_at DESC, id DESC LIMIT ?`

	missedAnswersQuery = `SELECT id, run_id, question_id, question_text, selected, correct, correct_texts, answered_at
	FROM missed_answers ORDER BY answered_at DESC, id DESC LIMIT ?`
)

// sqlxResultRepository implements domain.ResultRepository using sqlx.
type sqlxResultRepository struct {
	db *sqlx.DB
	tx domain.TransactionManager
}

func NewSQLXResultRepository(db *sqlx.DB, tx domain.TransactionManager) domain.ResultRepository {
	return &sqlxResultRepository{db: db, tx: tx}
}

func fromDomainRun(run *domain.RunResult) models.Run {
	return models.Run{
		ID:          run.ID,
		SessionID:   run.SessionID,
		Score:       run.Score,
		Total:       run.Total,
		Percent:     run.Percent,
		BankSource:  run.BankSource,
		CompletedAt: run.CompletedAt.UTC(),
	}
}

func toDomainRun(m models.Run) *domain.RunResult {
	return &domain.RunResult{
		ID:          m.ID,
		SessionID:   m.SessionID,
		Score:       m.Score,
		Total:       m.Total,
		Percent:     m.Percent,
		BankSource:  m.BankSource,
		CompletedAt: m.CompletedAt,
	}
}

func fromDomainMissed(runID string, answeredAt time.Time, m domain.MissedAnswer) models.MissedAnswer {
	if !m.AnsweredAt.IsZero() {
		answeredAt = m.AnsweredAt
	}
	return models.MissedAnswer{
		RunID:        runID,
		QuestionID:   m.QuestionID,
		QuestionText: m.QuestionText,
		Selected:     m.Selected,
		Correct:      m.Correct,
		CorrectTexts: m.CorrectTexts,
		AnsweredAt:   answeredAt.UTC(),
	}
}

func toDomainMissed(m models.MissedAnswer) *domain.MissedAnswer {
	return &domain.MissedAnswer{
		ID:           m.ID,
		RunID:        m.RunID,
		QuestionID:   m.QuestionID,
		QuestionText: m.QuestionText,
		Selected:     []int(m.Selected),
		Correct:      []int(m.Correct),
		CorrectTexts: []string(m.CorrectTexts),
		AnsweredAt:   m.AnsweredAt,
	}
}

// SaveRun writes the run and its missed answers in one transaction.
func (r *sqlxResultRepository) SaveRun(ctx context.Context, run *domain.RunResult) error {
	if run == nil {
		return domain.NewValidationError("run result is required")
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = time.Now()
	}

	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)

		if _, err := exec.NamedExecContext(ctx, insertRunQuery, fromDomainRun(run)); err != nil {
			return fmt.Errorf("failed to insert quiz run %s: %w", run.ID, err)
		}
		for _, missed := range run.Missed {
			row := fromDomainMissed(run.ID, run.CompletedAt, missed)
			if _, err := exec.NamedExecContext(ctx, insertMissedQuery, row); err != nil {
				return fmt.Errorf("failed to insert missed answer for question %d: %w", missed.QuestionID, err)
			}
		}
		return nil
	})
}

func (r *sqlxResultRepository) RecentRuns(ctx context.Context, limit int) ([]*domain.RunResult, error) {
	var rows []models.Run
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, recentRunsQuery, limit); err != nil {
		return nil, fmt.Errorf("failed to list quiz runs: %w", err)
	}
	runs := make([]*domain.RunResult, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, toDomainRun(row))
	}
	return runs, nil
}

func (r *sqlxResultRepository) MissedAnswers(ctx context.Context, limit int) ([]*domain.MissedAnswer, error) {
	var rows []models.MissedAnswer
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, missedAnswersQuery, limit); err != nil {
		return nil, fmt.Errorf("failed to list missed answers: %w", err)
	}
	missed := make([]*domain.MissedAnswer, 0, len(rows))
	for _, row := range rows {
		missed = append(missed, toDomainMissed(row))
	}
	return missed, nil
}
