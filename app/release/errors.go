package release

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("release not found")
	ErrNoFields = errors.New("no fields to update")
)

// ConstraintViolation is returned when a write would break the table schema,
// e.g. a missing release name or a version longer than 50 characters.
type ConstraintViolation struct {
	Field  string
	Reason string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation on %s: %s", e.Field, e.Reason)
}

func violation(field, reason string) error {
	return errors.WithStack(&ConstraintViolation{Field: field, Reason: reason})
}

func fromValidation(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		reason := first.Tag()
		if first.Param() != "" {
			reason = fmt.Sprintf("%s=%s", first.Tag(), first.Param())
		}
		return violation(first.Field(), reason)
	}
	return errors.Wrap(err, "validating release")
}
