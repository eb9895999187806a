package core

import (
	"errors"
	"strings"
)

// EntryInput is an entry as typed into a form: every field is raw text.
type EntryInput struct {
	Date        string `json:"date"`
	CategoryKey string `json:"category"`
	Title       string `json:"title"`
	Amount      string `json:"amount"`
}

// CategoryLookup resolves category keys.
type CategoryLookup interface {
	Get(key string) (CategoryDef, bool)
}

// FieldError ties a validation failure to the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

// ValidationError collects every field problem found in an EntryInput.
// It matches ErrValidation and each field sentinel under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap exposes the field sentinels to errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f.Err
	}
	return errs
}

// FieldErrors returns field name -> message, convenient for API responses.
func (e *ValidationError) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Err.Error()
	}
	return out
}

func (e *ValidationError) add(field string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Err: err})
}

// ParseEntryInput validates a form submission and builds the entry it
// describes. The returned entry has no ID; the store assigns one.
func ParseEntryInput(in EntryInput, categories CategoryLookup) (Entry, error) {
	verr := &ValidationError{}
	var e Entry

	date, err := ParseDate(in.Date)
	if err != nil {
		verr.add("date", err)
	}
	e.Date = date

	key := strings.TrimSpace(in.CategoryKey)
	if _, ok := categories.Get(key); !ok {
		verr.add("category", ErrUnknownCategory)
	}
	e.CategoryKey = key

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		verr.add("title", ErrEmptyTitle)
	case TitleTooLong(title):
		verr.add("title", ErrTitleTooLong)
	}
	e.Title = title

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		verr.add("amount", err)
	}
	e.Amount = amount

	if len(verr.Fields) > 0 {
		return Entry{}, verr
	}
	return e, nil
}

// AsValidation extracts a *ValidationError from err, if there is one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
