package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"quiz-drill/internal/domain"
)

type Format string

const (
	FormatAuto      Format = "auto"
	FormatDelimited Format = "delimited"
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
)

// ParseFormat accepts the names used in configuration and on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "delimited", "csv", "txt":
		return FormatDelimited, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", domain.NewValidationError(fmt.Sprintf("unknown bank format %q", s))
	}
}

// Record is the structured form of a question. CorrectAnswers are 0-based.
type Record struct {
	ID             int      `json:"id,omitempty" yaml:"id,omitempty" validate:"gte=0"`
	Question       string   `json:"question" yaml:"question" validate:"required"`
	Type           string   `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=text image"`
	Answers        []string `json:"answers" yaml:"answers" validate:"required,min=1"`
	CorrectAnswers []int    `json:"correctAnswers" yaml:"correctAnswers" validate:"required,min=1,dive,gte=0"`
	Image          string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// RecordSet is the top-level document of a structured bank.
type RecordSet struct {
	Questions []Record `json:"questions" yaml:"questions"`
}

var recordValidator = validator.New()

// ParseRecords decodes a JSON or YAML record set. Invalid records are
// reported in Bank.Rejected with their 1-based position.
func ParseRecords(data []byte, format Format) (*domain.Bank, error) {
	return parseRecords(data, format, fmt.Sprintf("%s input", format))
}

func parseRecords(data []byte, format Format, source string) (*domain.Bank, error) {
	var set RecordSet
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &set)
	case FormatYAML:
		err = yaml.Unmarshal(data, &set)
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("format %q is not a structured format", format))
	}
	if err != nil {
		return nil, domain.NewParseError(source, fmt.Errorf("malformed %s document: %w", format, err))
	}

	bank := &domain.Bank{Source: source}
	ids := assignIDs(set.Questions)
	seen := make(map[int]struct{}, len(set.Questions))
	for i, rec := range set.Questions {
		position := i + 1
		q, err := rec.toQuestion(ids[i])
		if err == nil {
			if _, dup := seen[q.ID]; dup {
				err = fmt.Errorf("duplicate question id %d", q.ID)
			}
		}
		if err != nil {
			bank.Rejected = append(bank.Rejected, domain.LineError{
				Line:    position,
				Content: rec.Question,
				Reason:  err.Error(),
			})
			continue
		}
		seen[q.ID] = struct{}{}
		bank.Questions = append(bank.Questions, q)
	}

	if len(bank.Questions) == 0 {
		var cause error
		if len(bank.Rejected) > 0 {
			cause = domain.NewParseError(source, bank.Rejected)
		}
		return nil, domain.NewEmptyBankError(source, cause)
	}
	return bank, nil
}

// assignIDs keeps explicit record ids and gives id-less records the next id
// not claimed by any explicit one, in document order.
func assignIDs(records []Record) []int {
	explicit := make(map[int]struct{}, len(records))
	for _, rec := range records {
		if rec.ID != 0 {
			explicit[rec.ID] = struct{}{}
		}
	}
	ids := make([]int, len(records))
	next := 1
	for i, rec := range records {
		if rec.ID != 0 {
			ids[i] = rec.ID
			continue
		}
		for {
			if _, taken := explicit[next]; !taken {
				break
			}
			next++
		}
		ids[i] = next
		next++
	}
	return ids
}

func (r Record) toQuestion(id int) (domain.Question, error) {
	if err := recordValidator.Struct(r); err != nil {
		return domain.Question{}, describeValidation(err)
	}

	kind := domain.KindText
	if r.Type != "" {
		k, ok := domain.ParseQuestionKind(r.Type)
		if !ok {
			return domain.Question{}, fmt.Errorf("unknown question type %q", r.Type)
		}
		kind = k
	}

	choices := make([]string, len(r.Answers))
	for i, a := range r.Answers {
		choices[i] = strings.TrimSpace(a)
	}

	return domain.NewQuestion(id, strings.TrimSpace(r.Question), kind, strings.TrimSpace(r.Image), choices, r.CorrectAnswers)
}

func describeValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid record: %s", strings.Join(parts, ", "))
}

// RecordsFromBank converts questions back into records, ids included.
func RecordsFromBank(bank *domain.Bank) RecordSet {
	set := RecordSet{Questions: make([]Record, 0, bank.Len())}
	if bank == nil {
		return set
	}
	for _, q := range bank.Questions {
		set.Questions = append(set.Questions, Record{
			ID:             q.ID,
			Question:       q.Text,
			Type:           q.Kind.String(),
			Answers:        append([]string(nil), q.Choices...),
			CorrectAnswers: q.CorrectChoices(),
			Image:          q.ImageRef,
		})
	}
	return set
}

// WriteRecords encodes set as indented JSON or YAML.
func WriteRecords(w io.Writer, set RecordSet, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(set); err != nil {
			return err
		}
		return enc.Close()
	default:
		return domain.NewValidationError(fmt.Sprintf("cannot write records as %q", format))
	}
}
