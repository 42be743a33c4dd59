package categories

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Candidate is the shape a category representation is validated against
// before it is persisted. The id is not part of the rule set.
type Candidate struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

// Validator checks field constraints on category candidates. Rules are
// evaluated exhaustively so a caller can report every violation at once.
// Validation has no side effects.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a category validator with the notblank rule registered.
// Violations are reported using JSON field names.
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate returns the full list of field violations for the candidate.
// An empty result means the candidate may be persisted.
func (v *Validator) Validate(c Candidate) []FieldViolation {
	err := v.validate.Struct(c)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldViolation{{Field: "candidate", Reason: err.Error()}}
	}

	violations := make([]FieldViolation, 0, len(errs))
	for _, fe := range errs {
		violations = append(violations, FieldViolation{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}

	return violations
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be blank"
	default:
		return "is invalid"
	}
}
