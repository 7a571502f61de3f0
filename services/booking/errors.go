package booking

import (
	"fmt"

	"trinhnail/services/i18n"
)

// ValidationKind distinguishes the two ways a draft can be incomplete.
type ValidationKind string

const (
	MissingRequired ValidationKind = "missing_required"
	NoService       ValidationKind = "no_service"
)

// ValidationError rejects a draft before any message is produced.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	if e.Kind == NoService {
		return "no service selected"
	}
	return fmt.Sprintf("required fields missing: %s", e.Field)
}

// Message returns the notice shown to the visitor.
func (e *ValidationError) Message(t i18n.Translator, lang i18n.Lang) string {
	if e.Kind == NoService {
		return t.Translate("err_no_service", lang)
	}
	return t.Translate("err_required", lang)
}

func missing(field string) error {
	return &ValidationError{Kind: MissingRequired, Field: field}
}
