package domain

import (
	"fmt"
	"slices"
	"strings"
)

// QuestionKind tells how the prompt is presented.
type QuestionKind int

const (
	KindText QuestionKind = iota + 1
	KindImage
)

func (k QuestionKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseQuestionKind converts "text"/"image" (case-insensitive) into a QuestionKind.
func ParseQuestionKind(s string) (QuestionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return KindText, true
	case "image":
		return KindImage, true
	default:
		return 0, false
	}
}

// Question is one multiple-choice entry of a bank.
// It is never mutated once built; accessors hand out copies.
type Question struct {
	ID       int
	Text     string
	Kind     QuestionKind
	ImageRef string
	Choices  []string
	// Correct holds 0-based indices into Choices, sorted and unique.
	Correct []int
}

// NewQuestion normalizes the correct indices (sort, dedupe) and validates the result.
func NewQuestion(id int, text string, kind QuestionKind, imageRef string, choices []string, correct []int) (Question, error) {
	q := Question{
		ID:       id,
		Text:     text,
		Kind:     kind,
		ImageRef: imageRef,
		Choices:  slices.Clone(choices),
		Correct:  normalizeIndices(correct),
	}
	if kind != KindImage {
		q.ImageRef = ""
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate validates the question
func (q Question) Validate() error {
	if q.ID <= 0 {
		return NewValidationError("question id must be positive")
	}
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question text is required")
	}
	if q.Kind != KindText && q.Kind != KindImage {
		return NewValidationError(fmt.Sprintf("unknown question kind %d", int(q.Kind)))
	}
	if q.Kind == KindImage && strings.TrimSpace(q.ImageRef) == "" {
		return NewValidationError("image question requires an image locator")
	}
	if len(q.Choices) == 0 {
		return NewValidationError("at least one choice is required")
	}
	if len(q.Correct) == 0 {
		return NewValidationError("at least one correct choice is required")
	}
	seen := make(map[int]struct{}, len(q.Correct))
	for _, idx := range q.Correct {
		if idx < 0 || idx >= len(q.Choices) {
			return NewValidationError(fmt.Sprintf("correct index %d is out of range for %d choices", idx, len(q.Choices)))
		}
		if _, dup := seen[idx]; dup {
			return NewValidationError(fmt.Sprintf("correct index %d is listed twice", idx))
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// IsMultiple reports whether more than one choice is correct.
// This alone decides between exclusive and independent answer inputs.
func (q Question) IsMultiple() bool {
	return len(q.Correct) > 1
}

// CorrectChoices returns a copy of the correct indices.
func (q Question) CorrectChoices() []int {
	return slices.Clone(q.Correct)
}

// CorrectTexts returns the text of every correct choice, in choice order.
func (q Question) CorrectTexts() []string {
	texts := make([]string, 0, len(q.Correct))
	for _, idx := range q.Correct {
		texts = append(texts, q.Choices[idx])
	}
	return texts
}

// Clone returns a deep copy.
func (q Question) Clone() Question {
	q.Choices = slices.Clone(q.Choices)
	q.Correct = slices.Clone(q.Correct)
	return q
}

func normalizeIndices(indices []int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}
