package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tasklist/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries every failed rule, keyed by request field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func newValidationError(field, msg string) *ValidationError {
	e := &ValidationError{}
	e.add(field, msg)
	return e
}

type CreateTaskInput struct {
	Text string
}

type UpdateTaskInput struct {
	Completed bool
}

// ValidateCreate checks the create body: "task" must be a non-blank string of
// at most domain.MaxTaskLength characters. The returned text is trimmed.
func ValidateCreate(body map[string]any) (CreateTaskInput, error) {
	const field = "task"

	raw, ok := body[field]
	if !ok || raw == nil {
		return CreateTaskInput{}, newValidationError(field, requiredMessage(field))
	}

	text, ok := raw.(string)
	if !ok {
		return CreateTaskInput{}, newValidationError(field, fmt.Sprintf("The %s field must be a string.", field))
	}
	text = strings.TrimSpace(text)

	err := validate.Var(text, fmt.Sprintf("required,max=%d", domain.MaxTaskLength))
	if err == nil {
		return CreateTaskInput{Text: text}, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return CreateTaskInput{}, fmt.Errorf("validate %s: %w", field, err)
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.add(field, ruleMessage(field, fe))
	}
	return CreateTaskInput{}, verr
}

// ValidateUpdate checks the update body: "completed" must be present and a
// boolean. true, false, 1, 0, "1" and "0" are accepted.
func ValidateUpdate(body map[string]any) (UpdateTaskInput, error) {
	const field = "completed"

	raw, ok := body[field]
	if !ok || raw == nil {
		return UpdateTaskInput{}, newValidationError(field, requiredMessage(field))
	}
	if s, isString := raw.(string); isString && strings.TrimSpace(s) == "" {
		return UpdateTaskInput{}, newValidationError(field, requiredMessage(field))
	}

	completed, ok := parseBoolean(raw)
	if !ok {
		return UpdateTaskInput{}, newValidationError(field, fmt.Sprintf("The %s field must be true or false.", field))
	}
	return UpdateTaskInput{Completed: completed}, nil
}

func parseBoolean(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case json.Number:
		return parseBinaryDigit(b.String())
	case float64:
		// bodies decoded without UseNumber
		switch b {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case string:
		return parseBinaryDigit(strings.TrimSpace(b))
	}
	return false, false
}

func parseBinaryDigit(s string) (bool, bool) {
	switch s {
	case "0":
		return false, true
	case "1":
		return true, true
	}
	return false, false
}

func requiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

func ruleMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return requiredMessage(field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
