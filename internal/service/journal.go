package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/dto"
	"quiz-drill/internal/logger"
	"quiz-drill/internal/quiz"
	"quiz-drill/internal/util"
)

const (
	defaultJournalLimit = 20
	maxJournalLimit     = 200
)

// JournalService records finished runs and the questions missed in them.
type JournalService interface {
	RecordRun(ctx context.Context, sessionID string, session *quiz.Session) error
	RecentRuns(ctx context.Context, limit int) (*dto.RunListResponse, error)
	MissedAnswers(ctx context.Context, limit int) (*dto.MissedAnswerListResponse, error)
	Enabled() bool
}

type journalService struct {
	repo domain.ResultRepository
	now  func() time.Time
}

// NewJournalService falls back to a no-op journal when repo is nil.
func NewJournalService(repo domain.ResultRepository) JournalService {
	if repo == nil {
		logger.Get().Info("Mistake journal disabled: no result repository configured")
		return noopJournalService{}
	}
	return &journalService{repo: repo, now: time.Now}
}

// BuildRunResult turns a completed session into a journal entry.
func BuildRunResult(sessionID string, session *quiz.Session, completedAt time.Time) (*domain.RunResult, error) {
	score, err := session.FinalScore()
	if err != nil {
		return nil, err
	}

	byID := make(map[int]domain.Question, session.Total())
	for _, q := range session.Pool() {
		byID[q.ID] = q
	}

	run := &domain.RunResult{
		ID:          util.NewULID(),
		SessionID:   sessionID,
		Score:       score.Correct,
		Total:       score.Total,
		Percent:     score.Percent,
		BankSource:  session.Bank().Source,
		CompletedAt: completedAt,
	}
	for _, miss := range session.Missed() {
		q := byID[miss.QuestionID]
		run.Missed = append(run.Missed, domain.MissedAnswer{
			RunID:        run.ID,
			QuestionID:   miss.QuestionID,
			QuestionText: q.Text,
			Selected:     miss.Selected,
			Correct:      miss.Correct,
			CorrectTexts: q.CorrectTexts(),
			AnsweredAt:   completedAt,
		})
	}
	return run, nil
}

func (j *journalService) RecordRun(ctx context.Context, sessionID string, session *quiz.Session) error {
	run, err := BuildRunResult(sessionID, session, j.now())
	if err != nil {
		return err
	}
	if err := j.repo.SaveRun(ctx, run); err != nil {
		return domain.NewInternalError("failed to record quiz run", err)
	}
	logger.Get().Info("Quiz run recorded",
		zap.String("run_id", run.ID),
		zap.String("session_id", sessionID),
		zap.Int("score", run.Score),
		zap.Int("total", run.Total),
		zap.Int("missed", len(run.Missed)))
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultJournalLimit
	}
	return min(limit, maxJournalLimit)
}

func (j *journalService) RecentRuns(ctx context.Context, limit int) (*dto.RunListResponse, error) {
	runs, err := j.repo.RecentRuns(ctx, clampLimit(limit))
	if err != nil {
		return nil, domain.NewInternalError("failed to list quiz runs", err)
	}
	resp := &dto.RunListResponse{Runs: make([]dto.RunResponse, 0, len(runs))}
	for _, r := range runs {
		resp.Runs = append(resp.Runs, dto.RunResponse{
			ID:          r.ID,
			SessionID:   r.SessionID,
			Score:       r.Score,
			Total:       r.Total,
			Percent:     r.Percent,
			BankSource:  r.BankSource,
			CompletedAt: r.CompletedAt,
		})
	}
	return resp, nil
}

func (j *journalService) MissedAnswers(ctx context.Context, limit int) (*dto.MissedAnswerListResponse, error) {
	missed, err := j.repo.MissedAnswers(ctx, clampLimit(limit))
	if err != nil {
		return nil, domain.NewInternalError("failed to list missed answers", err)
	}
	resp := &dto.MissedAnswerListResponse{Missed: make([]dto.MissedAnswerResponse, 0, len(missed))}
	for _, m := range missed {
		resp.Missed = append(resp.Missed, dto.MissedAnswerResponse{
			ID:           m.ID,
			RunID:        m.RunID,
			QuestionID:   m.QuestionID,
			QuestionText: m.QuestionText,
			Selected:     m.Selected,
			Correct:      m.Correct,
			CorrectTexts: m.CorrectTexts,
			AnsweredAt:   m.AnsweredAt,
		})
	}
	return resp, nil
}

func (j *journalService) Enabled() bool { return true }

// noopJournalService is used when no database is configured.
type noopJournalService struct{}

func (noopJournalService) RecordRun(context.Context, string, *quiz.Session) error { return nil }

func (noopJournalService) RecentRuns(context.Context, int) (*dto.RunListResponse, error) {
	return &dto.RunListResponse{Runs: []dto.RunResponse{}}, nil
}

func (noopJournalService) MissedAnswers(context.Context, int) (*dto.MissedAnswerListResponse, error) {
	return &dto.MissedAnswerListResponse{Missed: []dto.MissedAnswerResponse{}}, nil
}

func (noopJournalService) Enabled() bool { return false }
