// Package form validates user-entered values before they reach the store.
package form

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/studyplan/internal/model"
)

const invalidSubjectMsg = "Enter valid subject and weight (number)."

var validate = validator.New(validator.WithRequiredStructEnabled())

type subjectForm struct {
	Name   string `validate:"required"`
	Weight string `validate:"required,number"`
}

// ParseSubject trims and validates raw name and weight fields. Weight must be
// a non-negative integer.
func ParseSubject(name, weight string) (model.SubjectInput, error) {
	f := subjectForm{
		Name:   strings.TrimSpace(name),
		Weight: strings.TrimSpace(weight),
	}
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return model.SubjectInput{}, model.Invalid(invalidSubjectMsg)
		}
		return model.SubjectInput{}, err
	}
	w, err := strconv.Atoi(f.Weight)
	if err != nil {
		return model.SubjectInput{}, model.Invalid(invalidSubjectMsg)
	}
	return model.SubjectInput{Name: f.Name, Weight: w}, nil
}

// RemoveTarget validates the name of a subject chosen for removal.
func RemoveTarget(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validate.Var(name, "required"); err != nil {
		return "", model.Invalid("Select a subject to remove.")
	}
	return name, nil
}

// ParseDate parses a YYYY-MM-DD date in local time. An empty value means now.
func ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	if err := validate.Var(value, "datetime=2006-01-02"); err != nil {
		return time.Time{}, model.Invalid("Date must be YYYY-MM-DD.")
	}
	parsed, err := time.ParseInLocation(model.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, model.Invalid("Date must be YYYY-MM-DD.")
	}
	return parsed, nil
}
