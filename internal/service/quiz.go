package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/dto"
	"quiz-drill/internal/logger"
	"quiz-drill/internal/quiz"
	"quiz-drill/internal/util"
)

// BankProvider supplies the loaded question bank.
type BankProvider interface {
	Bank(ctx context.Context) (*domain.Bank, error)
	Reload(ctx context.Context) (*domain.Bank, error)
}

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	Bank(ctx context.Context) (*dto.BankSummaryResponse, error)
	ReloadBank(ctx context.Context) (*dto.BankSummaryResponse, error)
	StartSession(ctx context.Context, count *int) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	CurrentQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error)
	SubmitAnswer(ctx context.Context, id string, selected []int) (*dto.TransitionResponse, error)
	ContinueAfterReview(ctx context.Context, id string) (*dto.TransitionResponse, error)
	FinalScore(ctx context.Context, id string) (*dto.ScoreResponse, error)
	// Restart replaces a completed session with a fresh one under a new id.
	Restart(ctx context.Context, id string, count *int) (*dto.SessionResponse, error)
	ToggleSelection(ctx context.Context, id string, current []int, clicked int) (*dto.SelectionResponse, error)
	RecentRuns(ctx context.Context, limit int) (*dto.RunListResponse, error)
	MissedAnswers(ctx context.Context, limit int) (*dto.MissedAnswerListResponse, error)
}

// QuizServiceConfig holds the tunables the service reads from config.
type QuizServiceConfig struct {
	DefaultCount int
}

// quizService implements QuizService
type quizService struct {
	provider BankProvider
	store    SessionStore
	journal  JournalService
	cfg      QuizServiceConfig
	opts     []quiz.Option
	locks    *sessionLocks
	newID    func() string
}

// NewQuizService creates a new instance of quizService. opts are applied to
// every session it starts or restores.
func NewQuizService(
	provider BankProvider,
	store SessionStore,
	journal JournalService,
	cfg QuizServiceConfig,
	opts ...quiz.Option,
) QuizService {
	if journal == nil {
		journal = noopJournalService{}
	}
	if cfg.DefaultCount < 1 {
		cfg.DefaultCount = 1
	}
	return &quizService{
		provider: provider,
		store:    store,
		journal:  journal,
		cfg:      cfg,
		opts:     opts,
		locks:    newSessionLocks(),
		newID:    util.NewULID,
	}
}

func (s *quizService) Bank(ctx context.Context) (*dto.BankSummaryResponse, error) {
	bank, err := s.provider.Bank(ctx)
	if err != nil {
		return nil, err
	}
	return toBankSummary(bank), nil
}

func (s *quizService) ReloadBank(ctx context.Context) (*dto.BankSummaryResponse, error) {
	bank, err := s.provider.Reload(ctx)
	if err != nil {
		logger.Get().Warn("Question bank reload failed", zap.Error(err))
		return nil, err
	}
	logger.Get().Info("Question bank reloaded",
		zap.String("source", bank.Source),
		zap.Int("questions", bank.Len()),
		zap.Int("rejected", len(bank.Rejected)))
	return toBankSummary(bank), nil
}

func (s *quizService) resolveCount(count *int) (int, error) {
	if count == nil {
		return s.cfg.DefaultCount, nil
	}
	if *count < 1 {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("count", *count, 1, 0)}
	}
	return *count, nil
}

func (s *quizService) StartSession(ctx context.Context, count *int) (*dto.SessionResponse, error) {
	k, err := s.resolveCount(count)
	if err != nil {
		return nil, err
	}
	bank, err := s.provider.Bank(ctx)
	if err != nil {
		return nil, err
	}
	session, err := quiz.StartSession(bank, k, s.opts...)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	if err := s.store.Save(ctx, id, session); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz session started",
		zap.String("session_id", id),
		zap.Int("requested", k),
		zap.Int("total", session.Total()))
	return toSessionResponse(id, session), nil
}

// withSession runs fn under the session's lock. When save is set and fn
// succeeds the new state is written back.
func (s *quizService) withSession(ctx context.Context, id string, save bool, fn func(*quiz.Session) error) error {
	unlock := s.locks.lock(id)
	defer unlock()

	bank, err := s.provider.Bank(ctx)
	if err != nil {
		return err
	}
	session, err := s.store.Load(ctx, id, bank, s.opts...)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return s.store.Save(ctx, id, session)
}

func (s *quizService) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	var resp *dto.SessionResponse
	err := s.withSession(ctx, id, false, func(session *quiz.Session) error {
		resp = toSessionResponse(id, session)
		return nil
	})
	return resp, err
}

func (s *quizService) CurrentQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	var resp *dto.QuestionResponse
	err := s.withSession(ctx, id, false, func(session *quiz.Session) error {
		q, err := session.CurrentQuestion()
		if err != nil {
			return err
		}
		resp = toQuestionResponse(id, session, q)
		return nil
	})
	return resp, err
}

func (s *quizService) SubmitAnswer(ctx context.Context, id string, selected []int) (*dto.TransitionResponse, error) {
	var (
		resp     *dto.TransitionResponse
		t        quiz.Transition
		finished *quiz.Session
	)
	err := s.withSession(ctx, id, true, func(session *quiz.Session) error {
		// Submit reports the protocol violation when no question is open.
		var q domain.Question
		if session.State() == quiz.StateInProgress {
			q, _ = session.CurrentQuestion()
		}
		var err error
		if t, err = session.Submit(selected); err != nil {
			return err
		}
		resp = toTransitionResponse(id, t, q)
		finished = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordIfCompleted(ctx, id, finished, t)
	return resp, nil
}

func (s *quizService) ContinueAfterReview(ctx context.Context, id string) (*dto.TransitionResponse, error) {
	var (
		resp     *dto.TransitionResponse
		t        quiz.Transition
		finished *quiz.Session
	)
	err := s.withSession(ctx, id, true, func(session *quiz.Session) error {
		var err error
		if t, err = session.Continue(); err != nil {
			return err
		}
		resp = toTransitionResponse(id, t, domain.Question{})
		finished = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordIfCompleted(ctx, id, finished, t)
	return resp, nil
}

// recordIfCompleted journals a run once its completing transition is saved.
// A journal failure never fails the answer that completed the run.
func (s *quizService) recordIfCompleted(ctx context.Context, id string, session *quiz.Session, t quiz.Transition) {
	if t.To != quiz.StateCompleted || t.From == quiz.StateCompleted {
		return
	}
	if err := s.journal.RecordRun(ctx, id, session); err != nil {
		logger.Get().Error("Failed to record quiz run",
			zap.String("session_id", id),
			zap.Error(err))
	}
}

func (s *quizService) FinalScore(ctx context.Context, id string) (*dto.ScoreResponse, error) {
	var resp *dto.ScoreResponse
	err := s.withSession(ctx, id, false, func(session *quiz.Session) error {
		score, err := session.FinalScore()
		if err != nil {
			return err
		}
		resp = toScoreResponse(id, session, score)
		return nil
	})
	return resp, err
}

func (s *quizService) Restart(ctx context.Context, id string, count *int) (*dto.SessionResponse, error) {
	if count != nil {
		if _, err := s.resolveCount(count); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.lock(id)
	defer unlock()

	bank, err := s.provider.Bank(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.store.Load(ctx, id, bank, s.opts...)
	if err != nil {
		return nil, err
	}

	k := session.Requested()
	if count != nil {
		k = *count
	}
	if err := session.Restart(); err != nil {
		return nil, err
	}
	if err := session.Start(k); err != nil {
		return nil, err
	}

	newID := s.newID()
	if err := s.store.Save(ctx, newID, session); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		logger.Get().Warn("Failed to delete restarted session",
			zap.String("session_id", id),
			zap.Error(err))
	}
	logger.Get().Info("Quiz session restarted",
		zap.String("previous_session_id", id),
		zap.String("session_id", newID),
		zap.Int("total", session.Total()))
	return toSessionResponse(newID, session), nil
}

func (s *quizService) ToggleSelection(ctx context.Context, id string, current []int, clicked int) (*dto.SelectionResponse, error) {
	var resp *dto.SelectionResponse
	err := s.withSession(ctx, id, false, func(session *quiz.Session) error {
		q, err := session.CurrentQuestion()
		if err != nil {
			return err
		}
		n := len(q.Choices)
		if clicked < 0 || clicked >= n {
			return domain.ValidationErrors{domain.NewOutOfRangeError("clicked", clicked, 0, n-1)}
		}
		for i, idx := range current {
			if idx < 0 || idx >= n {
				return domain.ValidationErrors{domain.NewOutOfRangeError(fmt.Sprintf("current[%d]", i), idx, 0, n-1)}
			}
		}
		resp = &dto.SelectionResponse{
			Selected: quiz.ToggleOrSelect(current, clicked, q.IsMultiple()),
			Multiple: q.IsMultiple(),
		}
		return nil
	})
	return resp, err
}

func (s *quizService) RecentRuns(ctx context.Context, limit int) (*dto.RunListResponse, error) {
	return s.journal.RecentRuns(ctx, limit)
}

func (s *quizService) MissedAnswers(ctx context.Context, limit int) (*dto.MissedAnswerListResponse, error) {
	return s.journal.MissedAnswers(ctx, limit)
}
