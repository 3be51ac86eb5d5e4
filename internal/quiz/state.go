// Package quiz implements one drill run over a question bank.
//
// A Session moves Configuring -> InProgress -> (Reviewing) -> Completed and
// back to Configuring on Restart. Calling an operation in a state that does
// not accept it returns a PROTOCOL_VIOLATION error and leaves the session
// untouched. Sessions are not safe for concurrent use.
package quiz

import (
	"fmt"
	"strings"
)

type State int

const (
	StateConfiguring State = iota + 1
	StateInProgress
	StateReviewing
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateInProgress:
		return "in_progress"
	case StateReviewing:
		return "reviewing"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) Valid() bool {
	return s >= StateConfiguring && s <= StateCompleted
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid session state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "configuring":
		*s = StateConfiguring
	case "in_progress":
		*s = StateInProgress
	case "reviewing":
		*s = StateReviewing
	case "completed":
		*s = StateCompleted
	default:
		return fmt.Errorf("unknown session state %q", string(text))
	}
	return nil
}
