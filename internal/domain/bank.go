package domain

import (
	"fmt"
	"strings"
)

// LineError records why one input record was dropped.
// Line is 1-based for delimited text and the record position for structured input.
type LineError struct {
	Line    int    `json:"line"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason"`
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseErrors collects every record rejected during a best-effort parse.
type ParseErrors []LineError

func (p ParseErrors) Error() string {
	if len(p) == 0 {
		return "no parse errors"
	}
	parts := make([]string, 0, len(p))
	for _, le := range p {
		parts = append(parts, le.Error())
	}
	return fmt.Sprintf("%d malformed record(s): %s", len(p), strings.Join(parts, "; "))
}

// Bank is the full ordered set of questions parsed from one resource.
type Bank struct {
	Questions []Question
	Source    string
	// Rejected lists the records that could not become playable questions.
	Rejected ParseErrors
}

func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Questions)
}

// ByID looks a question up by its id.
func (b *Bank) ByID(id int) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
