package quiz

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"quiz-drill/internal/domain"
)

// Transition reports what a Submit or Continue did.
type Transition struct {
	From State `json:"from"`
	To   State `json:"to"`
	// Correct and CorrectChoices describe the graded answer; Continue leaves them zero.
	Correct        bool  `json:"correct"`
	CorrectChoices []int `json:"correctChoices,omitempty"`
	Position       int   `json:"position"`
	Score          int   `json:"score"`
	Total          int   `json:"total"`
}

// Review is the correction shown after a wrong answer.
type Review struct {
	Question domain.Question
	Selected []int
	Correct  []int
}

// Miss records one wrongly answered question of the run.
type Miss struct {
	QuestionID int   `json:"questionId"`
	Selected   []int `json:"selected"`
	Correct    []int `json:"correct"`
}

type Session struct {
	bank *domain.Bank
	rng  *rand.Rand

	state     State
	requested int
	pool      []domain.Question
	position  int
	score     int
	// lastSubmission is only set while Reviewing
	lastSubmission []int
	missed         []Miss
}

type Option func(*Session)

// WithRand makes sampling reproducible. Without it the package-level source is used.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// New returns a session waiting for Start.
func New(bank *domain.Bank, opts ...Option) (*Session, error) {
	if bank.Len() == 0 {
		return nil, domain.NewEmptyBankError("bank", nil)
	}
	s := &Session{bank: bank, state: StateConfiguring}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartSession creates a session and starts it with k questions.
func StartSession(bank *domain.Bank, k int, opts ...Option) (*Session, error) {
	s, err := New(bank, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Start(k); err != nil {
		return nil, err
	}
	return s, nil
}

// Start draws k distinct questions. k above the bank size is capped to it;
// k below 1 is a validation error.
func (s *Session) Start(k int) error {
	if s.state != StateConfiguring {
		return domain.NewProtocolViolation("start", s.state.String())
	}
	if k < 1 {
		return domain.NewValidationError(fmt.Sprintf("question count must be at least 1, got %d", k)).
			WithContext("count", k)
	}
	n := min(k, s.bank.Len())

	s.requested = k
	s.pool = samplePool(s.rng, s.bank.Questions, n)
	s.position = 0
	s.score = 0
	s.lastSubmission = nil
	s.missed = nil
	s.state = StateInProgress
	return nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Position() int { return s.position }

func (s *Session) Score() int { return s.score }

// Total is the pool size, 0 before Start.
func (s *Session) Total() int { return len(s.pool) }

// Requested is the count passed to Start, before capping.
func (s *Session) Requested() int { return s.requested }

// Progress returns the number of questions already answered and the pool size.
func (s *Session) Progress() (int, int) {
	return s.position, len(s.pool)
}

func (s *Session) Bank() *domain.Bank { return s.bank }

func (s *Session) Pool() []domain.Question {
	out := make([]domain.Question, len(s.pool))
	for i, q := range s.pool {
		out[i] = q.Clone()
	}
	return out
}

func (s *Session) Missed() []Miss {
	out := make([]Miss, len(s.missed))
	for i, m := range s.missed {
		out[i] = Miss{QuestionID: m.QuestionID, Selected: slices.Clone(m.Selected), Correct: slices.Clone(m.Correct)}
	}
	return out
}

func (s *Session) CurrentQuestion() (domain.Question, error) {
	if s.state != StateInProgress {
		return domain.Question{}, domain.NewProtocolViolation("current question", s.state.String())
	}
	return s.pool[s.position].Clone(), nil
}

// Submit grades the selected 0-based choice indices by set equality.
// An empty selection or an index outside the question's choices is a
// validation error and leaves the session InProgress.
func (s *Session) Submit(selected []int) (Transition, error) {
	if s.state != StateInProgress {
		return Transition{}, domain.NewProtocolViolation("submit answer", s.state.String())
	}
	q := s.pool[s.position]
	if err := validateSelection(q, selected); err != nil {
		return Transition{}, err
	}

	chosen := normalizeSelection(selected)
	t := Transition{From: s.state, CorrectChoices: q.CorrectChoices()}

	if sameSet(chosen, q.Correct) {
		t.Correct = true
		s.score++
		s.advance()
	} else {
		s.lastSubmission = chosen
		s.missed = append(s.missed, Miss{
			QuestionID: q.ID,
			Selected:   slices.Clone(chosen),
			Correct:    q.CorrectChoices(),
		})
		s.state = StateReviewing
	}
	return s.fill(t), nil
}

func validateSelection(q domain.Question, selected []int) error {
	if len(selected) == 0 {
		return domain.NewValidationError("at least one choice must be selected")
	}
	for _, idx := range selected {
		if idx < 0 || idx >= len(q.Choices) {
			return domain.NewValidationError(fmt.Sprintf("choice %d is out of range for %d choices", idx, len(q.Choices))).
				WithContext("choice", idx)
		}
	}
	return nil
}

// Review exposes the correction for the question just missed.
func (s *Session) Review() (Review, error) {
	if s.state != StateReviewing {
		return Review{}, domain.NewProtocolViolation("review", s.state.String())
	}
	q := s.pool[s.position]
	return Review{
		Question: q.Clone(),
		Selected: slices.Clone(s.lastSubmission),
		Correct:  q.CorrectChoices(),
	}, nil
}

// Continue leaves Reviewing without scoring the missed question.
func (s *Session) Continue() (Transition, error) {
	if s.state != StateReviewing {
		return Transition{}, domain.NewProtocolViolation("continue", s.state.String())
	}
	t := Transition{From: s.state}
	s.lastSubmission = nil
	s.advance()
	return s.fill(t), nil
}

func (s *Session) advance() {
	s.position++
	if s.position == len(s.pool) {
		s.state = StateCompleted
		return
	}
	s.state = StateInProgress
}

func (s *Session) fill(t Transition) Transition {
	t.To = s.state
	t.Position = s.position
	t.Score = s.score
	t.Total = len(s.pool)
	return t
}

func (s *Session) FinalScore() (Score, error) {
	if s.state != StateCompleted {
		return Score{}, domain.NewProtocolViolation("final score", s.state.String())
	}
	return NewScore(s.score, len(s.pool)), nil
}

// Restart discards the finished run. A new Start draws a fresh sample.
func (s *Session) Restart() error {
	if s.state != StateCompleted {
		return domain.NewProtocolViolation("restart", s.state.String())
	}
	s.state = StateConfiguring
	s.requested = 0
	s.pool = nil
	s.position = 0
	s.score = 0
	s.lastSubmission = nil
	s.missed = nil
	return nil
}
