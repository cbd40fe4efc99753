package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/gestionrh/internal/models"
)

// InputError is a local validation failure. No database call has been made.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func invalidInput(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// displayDate is how dates are echoed back to the user.
const displayDate = "02/01/2006"

// dateLayouts are tried in order; day-first matches how dates are typed locally.
var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

// parseID accepts positive whole numbers only, so a bad id stops the command
// before any further prompt.
func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalidInput("Invalid %s: %q is not a whole number.", what, raw)
	}
	if id <= 0 {
		return 0, invalidInput("Invalid %s: %d must be greater than 0.", what, id)
	}
	return id, nil
}

func parseDate(raw, what string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, invalidInput("Invalid %s: %q is not a date (DD/MM/YYYY).", what, raw)
}

// parseOptionalDate returns nil for blank input.
func parseOptionalDate(raw, what string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := parseDate(raw, what)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseAmount(raw, what string) (models.Amount, error) {
	a, err := models.ParseAmount(raw)
	if err != nil {
		return "", invalidInput("Invalid %s: %q is not an amount.", what, raw)
	}
	return a, nil
}

var validate = validator.New()

// Validate runs struct tag validation and turns failures into an InputError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return &InputError{Message: "Invalid input: " + strings.Join(msgs, "; ") + "."}
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
