package quiz

import (
	"fmt"
	"slices"

	"quiz-drill/internal/domain"
)

const snapshotVersion = 1

// Snapshot is the serializable form of a Session. Pool questions are stored
// whole so a restored run does not depend on the bank being unchanged.
type Snapshot struct {
	Version        int                `json:"version"`
	State          State              `json:"state"`
	Requested      int                `json:"requested"`
	Pool           []QuestionSnapshot `json:"pool"`
	Position       int                `json:"position"`
	Score          int                `json:"score"`
	LastSubmission []int              `json:"lastSubmission,omitempty"`
	Missed         []Miss             `json:"missed,omitempty"`
}

type QuestionSnapshot struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Kind     string   `json:"kind"`
	ImageRef string   `json:"imageRef,omitempty"`
	Choices  []string `json:"choices"`
	Correct  []int    `json:"correct"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Version:        snapshotVersion,
		State:          s.state,
		Requested:      s.requested,
		Pool:           make([]QuestionSnapshot, len(s.pool)),
		Position:       s.position,
		Score:          s.score,
		LastSubmission: slices.Clone(s.lastSubmission),
		Missed:         s.Missed(),
	}
	for i, q := range s.pool {
		snap.Pool[i] = QuestionSnapshot{
			ID:       q.ID,
			Text:     q.Text,
			Kind:     q.Kind.String(),
			ImageRef: q.ImageRef,
			Choices:  slices.Clone(q.Choices),
			Correct:  q.CorrectChoices(),
		}
	}
	return snap
}

// Restore rebuilds a session from snap, re-checking every invariant. bank is
// the one later Restart/Start calls sample from.
func Restore(bank *domain.Bank, snap Snapshot, opts ...Option) (*Session, error) {
	s, err := New(bank, opts...)
	if err != nil {
		return nil, err
	}
	if snap.Version != snapshotVersion {
		return nil, domain.NewInvalidSnapshotError(fmt.Sprintf("unsupported snapshot version %d", snap.Version))
	}

	pool := make([]domain.Question, 0, len(snap.Pool))
	seen := make(map[int]struct{}, len(snap.Pool))
	for i, qs := range snap.Pool {
		kind, ok := domain.ParseQuestionKind(qs.Kind)
		if !ok {
			return nil, invalidSnapshot("pool[%d]: unknown kind %q", i, qs.Kind)
		}
		q, err := domain.NewQuestion(qs.ID, qs.Text, kind, qs.ImageRef, qs.Choices, qs.Correct)
		if err != nil {
			return nil, invalidSnapshot("pool[%d]: %v", i, err)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, invalidSnapshot("pool[%d]: question %d appears twice", i, q.ID)
		}
		seen[q.ID] = struct{}{}
		pool = append(pool, q)
	}

	if err := checkCounters(snap, len(pool)); err != nil {
		return nil, err
	}

	s.state = snap.State
	s.requested = snap.Requested
	s.pool = pool
	s.position = snap.Position
	s.score = snap.Score
	if snap.State == StateReviewing {
		s.lastSubmission = normalizeSelection(snap.LastSubmission)
	}
	for _, m := range snap.Missed {
		s.missed = append(s.missed, Miss{
			QuestionID: m.QuestionID,
			Selected:   slices.Clone(m.Selected),
			Correct:    slices.Clone(m.Correct),
		})
	}
	return s, nil
}

func checkCounters(snap Snapshot, n int) error {
	switch snap.State {
	case StateConfiguring:
		if n != 0 || snap.Position != 0 || snap.Score != 0 || len(snap.Missed) != 0 {
			return invalidSnapshot("configuring session must be empty")
		}
		return nil
	case StateInProgress, StateReviewing:
		if n < 1 || snap.Position >= n {
			return invalidSnapshot("position %d is outside a pool of %d", snap.Position, n)
		}
	case StateCompleted:
		if n < 1 || snap.Position != n {
			return invalidSnapshot("completed session must be at position %d, got %d", n, snap.Position)
		}
	default:
		return invalidSnapshot("unknown state %d", int(snap.State))
	}

	if snap.Score < 0 || snap.Score > snap.Position {
		return invalidSnapshot("score %d exceeds position %d", snap.Score, snap.Position)
	}

	answered := snap.Position
	if snap.State == StateReviewing {
		answered++
		if len(snap.LastSubmission) == 0 {
			return invalidSnapshot("reviewing session has no submission")
		}
	} else if len(snap.LastSubmission) != 0 {
		return invalidSnapshot("submission kept outside reviewing")
	}
	if snap.Score+len(snap.Missed) != answered {
		return invalidSnapshot("%d correct and %d missed answers do not add up to %d answered", snap.Score, len(snap.Missed), answered)
	}
	return nil
}

func invalidSnapshot(format string, args ...interface{}) error {
	return domain.NewInvalidSnapshotError("invalid session snapshot: " + fmt.Sprintf(format, args...))
}
