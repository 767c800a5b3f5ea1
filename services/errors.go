package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/house-tournament/scoring"
)

// Общие виды ошибок, по которым handlers выбирают HTTP-статус.
var (
	ErrNotFound          = errors.New("requested resource not found")
	ErrValidationFailed  = errors.New("validation failed")
	ErrIllegalTransition = scoring.ErrIllegalTransition
	ErrConflict          = errors.New("conflicting concurrent modification")
)

var (
	ErrMatchNotFound = fmt.Errorf("%w: match", ErrNotFound)
	ErrTeamNotFound  = fmt.Errorf("%w: team", ErrNotFound)
	ErrHouseNotFound = fmt.Errorf("%w: house", ErrNotFound)
	ErrTableNotFound = fmt.Errorf("%w: play table", ErrNotFound)

	ErrTablePreferenceNotFound = fmt.Errorf("%w: team table preference", ErrNotFound)

	ErrMatchAlreadyCompleted = scoring.ErrMatchAlreadyComplete

	ErrInvalidDate           = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidationFailed)
	ErrInvalidCategory       = fmt.Errorf("%w: category must be %q or %q", ErrValidationFailed, "Mixed Doubles", "Men's Doubles")
	ErrTableCategoryMismatch = fmt.Errorf("%w: table is not assigned to this category", ErrValidationFailed)
	ErrArchiveNotConfigured  = errors.New("report archive storage is not configured")
)

// ValidationError собирает ошибки по полям; errors.Is(err, ErrValidationFailed) == true.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
