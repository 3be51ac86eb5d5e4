package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quiz-drill/internal/adapter"
	"quiz-drill/internal/bank"
	"quiz-drill/internal/domain"
	"quiz-drill/internal/quiz"
	"quiz-drill/internal/util"
)

func intPtr(v int) *int { return &v }

// testBank: Q1 single (1), Q2 multi (0,2), Q3 single (0).
func testBank(t *testing.T) *domain.Bank {
	t.Helper()
	mk := func(id int, text string, choices []string, correct ...int) domain.Question {
		q, err := domain.NewQuestion(id, text, domain.KindText, "", choices, correct)
		require.NoError(t, err)
		return q
	}
	return &domain.Bank{
		Source: "test.txt",
		Questions: []domain.Question{
			mk(1, "Q1", []string{"a", "b", "c"}, 1),
			mk(2, "Q2", []string{"red", "green", "blue"}, 0, 2),
			mk(3, "Q3", []string{"yes", "no"}, 0),
		},
		Rejected: domain.ParseErrors{{Line: 4, Content: "broken", Reason: "missing fields"}},
	}
}

type serviceFixture struct {
	svc     QuizService
	bank    *domain.Bank
	store   SessionStore
	results *MockResultRepository
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	b := testBank(t)
	mem, err := adapter.NewMemoryCacheAdapter(64)
	require.NoError(t, err)
	store := NewSessionStore(mem, time.Hour)
	results := new(MockResultRepository)
	svc := NewQuizService(
		bank.NewStaticProvider(b),
		store,
		NewJournalService(results),
		QuizServiceConfig{DefaultCount: 60},
		quiz.WithRand(rand.New(rand.NewPCG(7, 11))),
	)
	return &serviceFixture{svc: svc, bank: b, store: store, results: results}
}

// answer submits the correct choices for the open question, or a wrong one.
func (f *serviceFixture) answer(t *testing.T, id string, correct bool) {
	t.Helper()
	ctx := context.Background()
	cur, err := f.svc.CurrentQuestion(ctx, id)
	require.NoError(t, err)
	q, ok := f.bank.ByID(cur.ID)
	require.True(t, ok)

	selected := q.CorrectChoices()
	if !correct {
		selected = []int{len(q.Choices) - 1}
		if q.ID == 2 {
			selected = []int{0}
		}
	}
	tr, err := f.svc.SubmitAnswer(ctx, id, selected)
	require.NoError(t, err)
	assert.Equal(t, correct, tr.Correct)
}

func TestQuizService_Bank(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.Bank(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test.txt", summary.Source)
	assert.Equal(t, 3, summary.QuestionCount)
	require.Len(t, summary.Rejected, 1)
	assert.Equal(t, 4, summary.Rejected[0].Line)
}

func TestQuizService_ReloadBankFailure(t *testing.T) {
	provider := new(MockBankProvider)
	loadErr := domain.NewFetchError("http://bank.example/q.txt", errors.New("connection refused"))
	provider.On("Reload", mock.Anything).Return(nil, loadErr)

	svc := NewQuizService(provider, nil, nil, QuizServiceConfig{DefaultCount: 5})
	_, err := svc.ReloadBank(context.Background())
	assert.Equal(t, domain.CodeFetchFailed, domain.CodeOf(err))
	provider.AssertExpectations(t)
}

func TestQuizService_StartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("default count is capped to the bank", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.StartSession(ctx, nil)
		require.NoError(t, err)
		assert.True(t, util.IsULID(resp.ID))
		assert.Equal(t, "in_progress", resp.State)
		assert.Equal(t, 60, resp.Requested)
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, 0, resp.Position)
		assert.Nil(t, resp.Review)
	})

	t.Run("explicit count", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.StartSession(ctx, intPtr(2))
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("count below one", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.StartSession(ctx, intPtr(0))
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("bank unavailable", func(t *testing.T) {
		provider := new(MockBankProvider)
		provider.On("Bank", mock.Anything).Return(nil, domain.NewEmptyBankError("bank.txt", nil))
		svc := NewQuizService(provider, nil, nil, QuizServiceConfig{DefaultCount: 5})

		_, err := svc.StartSession(ctx, nil)
		assert.Equal(t, domain.CodeEmptyBank, domain.CodeOf(err))
	})
}

func TestQuizService_CurrentQuestionHidesAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx, nil)
	require.NoError(t, err)

	cur, err := f.svc.CurrentQuestion(ctx, started.ID)
	require.NoError(t, err)
	q, ok := f.bank.ByID(cur.ID)
	require.True(t, ok)
	assert.Equal(t, q.Text, cur.Text)
	assert.Equal(t, q.Choices, cur.Choices)
	assert.Equal(t, q.IsMultiple(), cur.Multiple)
	assert.Equal(t, "text", cur.Kind)
	assert.Equal(t, 3, cur.Total)
}

func TestQuizService_FullRunRecordsJournal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.results.On("SaveRun", mock.Anything, mock.MatchedBy(func(run *domain.RunResult) bool {
		return run.Score == 2 && run.Total == 3 && len(run.Missed) == 1 &&
			run.BankSource == "test.txt" && run.Percent == 66.7
	})).Return(nil).Once()

	started, err := f.svc.StartSession(ctx, nil)
	require.NoError(t, err)
	id := started.ID

	f.answer(t, id, true)
	f.answer(t, id, false)

	sess, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "reviewing", sess.State)
	require.NotNil(t, sess.Review)
	assert.NotEmpty(t, sess.Review.CorrectTexts)

	_, err = f.svc.CurrentQuestion(ctx, id)
	assert.True(t, domain.IsProtocolViolation(err))

	tr, err := f.svc.ContinueAfterReview(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", tr.State)
	assert.Equal(t, 2, tr.Position)

	f.answer(t, id, true)

	score, err := f.svc.FinalScore(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, score.Correct)
	assert.Equal(t, 3, score.Total)
	assert.Equal(t, 66.7, score.Percent)
	assert.Equal(t, "good", score.Rating)
	assert.Equal(t, "Well done!", score.Message)
	require.Len(t, score.Missed, 1)

	f.results.AssertExpectations(t)
}

func TestQuizService_SubmitReportsCorrectTexts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx, intPtr(1))
	require.NoError(t, err)
	f.results.On("SaveRun", mock.Anything, mock.Anything).Return(nil)

	cur, err := f.svc.CurrentQuestion(ctx, started.ID)
	require.NoError(t, err)
	q, _ := f.bank.ByID(cur.ID)

	tr, err := f.svc.SubmitAnswer(ctx, started.ID, q.CorrectChoices())
	require.NoError(t, err)
	assert.True(t, tr.Correct)
	assert.Equal(t, "completed", tr.State)
	assert.Equal(t, q.CorrectChoices(), tr.CorrectChoices)
	assert.Equal(t, q.CorrectTexts(), tr.CorrectTexts)
}

func TestQuizService_JournalFailureDoesNotFailAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.results.On("SaveRun", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	started, err := f.svc.StartSession(ctx, intPtr(1))
	require.NoError(t, err)
	f.answer(t, started.ID, true)

	sess, err := f.svc.GetSession(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", sess.State)
	f.results.AssertNumberOfCalls(t, "SaveRun", 1)
}

func TestQuizService_InvalidSubmissionKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx, nil)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, started.ID, []int{})
	assert.True(t, domain.IsValidation(err))
	_, err = f.svc.SubmitAnswer(ctx, started.ID, []int{9})
	assert.True(t, domain.IsValidation(err))

	sess, err := f.svc.GetSession(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", sess.State)
	assert.Equal(t, 0, sess.Position)
}

func TestQuizService_ProtocolViolations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx, nil)
	require.NoError(t, err)

	_, err = f.svc.ContinueAfterReview(ctx, started.ID)
	assert.True(t, domain.IsProtocolViolation(err))
	_, err = f.svc.FinalScore(ctx, started.ID)
	assert.True(t, domain.IsProtocolViolation(err))
	_, err = f.svc.Restart(ctx, started.ID, nil)
	assert.True(t, domain.IsProtocolViolation(err))

	f.answer(t, started.ID, false)
	_, err = f.svc.SubmitAnswer(ctx, started.ID, []int{0})
	assert.True(t, domain.IsProtocolViolation(err))
}

func TestQuizService_UnknownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := util.NewULID()

	_, err := f.svc.GetSession(ctx, id)
	assert.Equal(t, domain.CodeSessionNotFound, domain.CodeOf(err))
	_, err = f.svc.SubmitAnswer(ctx, id, []int{0})
	assert.Equal(t, domain.CodeSessionNotFound, domain.CodeOf(err))
}

func TestQuizService_Restart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.results.On("SaveRun", mock.Anything, mock.Anything).Return(nil)

	started, err := f.svc.StartSession(ctx, intPtr(2))
	require.NoError(t, err)
	f.answer(t, started.ID, true)
	f.answer(t, started.ID, true)

	restarted, err := f.svc.Restart(ctx, started.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, started.ID, restarted.ID)
	assert.Equal(t, "in_progress", restarted.State)
	assert.Equal(t, 2, restarted.Requested)
	assert.Equal(t, 0, restarted.Score)

	_, err = f.svc.GetSession(ctx, started.ID)
	assert.Equal(t, domain.CodeSessionNotFound, domain.CodeOf(err))

	f.answer(t, restarted.ID, true)
	f.answer(t, restarted.ID, true)
	again, err := f.svc.Restart(ctx, restarted.ID, intPtr(3))
	require.NoError(t, err)
	assert.Equal(t, 3, again.Total)
}

func TestQuizService_ToggleSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started, err := f.svc.StartSession(ctx, nil)
	require.NoError(t, err)

	cur, err := f.svc.CurrentQuestion(ctx, started.ID)
	require.NoError(t, err)

	sel, err := f.svc.ToggleSelection(ctx, started.ID, []int{0}, 1)
	require.NoError(t, err)
	assert.Equal(t, cur.Multiple, sel.Multiple)
	if cur.Multiple {
		assert.Equal(t, []int{0, 1}, sel.Selected)
	} else {
		assert.Equal(t, []int{1}, sel.Selected)
	}

	_, err = f.svc.ToggleSelection(ctx, started.ID, nil, len(cur.Choices))
	assert.True(t, domain.IsValidation(err))
	_, err = f.svc.ToggleSelection(ctx, started.ID, []int{-1}, 0)
	assert.True(t, domain.IsValidation(err))
}

func TestQuizService_JournalListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.results.On("RecentRuns", mock.Anything, 20).Return([]*domain.RunResult{
		{ID: "run-1", SessionID: "s-1", Score: 3, Total: 4, Percent: 75, BankSource: "bank.txt", CompletedAt: completed},
	}, nil)
	f.results.On("MissedAnswers", mock.Anything, 5).Return([]*domain.MissedAnswer{
		{ID: 1, RunID: "run-1", QuestionID: 2, QuestionText: "Q2", Selected: []int{0}, Correct: []int{0, 2}},
	}, nil)

	runs, err := f.svc.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs.Runs, 1)
	assert.Equal(t, completed, runs.Runs[0].CompletedAt)

	missed, err := f.svc.MissedAnswers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, missed.Missed, 1)
	assert.Equal(t, []int{0, 2}, missed.Missed[0].Correct)

	f.results.AssertExpectations(t)
}

func TestNoopJournal(t *testing.T) {
	j := NewJournalService(nil)
	assert.False(t, j.Enabled())
	runs, err := j.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs.Runs)
	assert.NotNil(t, runs.Runs)
}
