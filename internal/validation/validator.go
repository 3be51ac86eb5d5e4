package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/util"
)

const MaxJournalLimit = 200

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field errors are reported
// under their json names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct checks the validate tags of a request DTO.
func (v *Validator) ValidateStruct(req interface{}) domain.ValidationErrors {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	var out domain.ValidationErrors
	for _, fe := range verrs {
		out = append(out, toFieldError(fe))
	}
	return out
}

func toFieldError(fe validator.FieldError) domain.FieldError {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min":
		min, _ := strconv.Atoi(fe.Param())
		return domain.NewOutOfRangeError(field, fe.Value(), min, 0)
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// fieldPath drops the struct name from a namespace such as
// "SubmitAnswerRequest.selected[0]".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// ValidateSessionID validates a session id path parameter
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("id", id)}
	}
	return nil
}

// ValidateLimit parses an optional limit query value. An empty value yields 0,
// which the journal treats as its default page size.
func (v *Validator) ValidateLimit(raw string) (int, domain.ValidationErrors) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
	}
	if limit < 1 || limit > MaxJournalLimit {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("limit", limit, 1, MaxJournalLimit)}
	}
	return limit, nil
}
